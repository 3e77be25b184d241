// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package padron provides the seeded voter registry and the party and
region catalogs.

"Padrón" is the electoral roll. The registry answers the national-ID
lookup the ballot flow performs before confirming a voter, resolves a
voter's region (falling back to the Other bucket), and supplies the
known-party and known-region lists that seed aggregation cells to
zero.

The data is demo fixture data, fixed at construction; a production
deployment would back Lookup with the real registry service.
*/
package padron
