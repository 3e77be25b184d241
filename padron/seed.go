// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package padron

import "github.com/votaciones-pe/sufragio/models"

// Demo fixtures. Voter entries mirror the registry records the ballot
// flow looks up before letting anyone vote; parties carry one
// candidate per category.

var seedRegions = []string{"Lima", "Arequipa", "Cuzco", models.RegionOther}

var seedVoters = []models.Voter{
	{DNI: "12345678", FirstName: "Juan Carlos", LastName: "Pérez Gómez", Region: "Lima", BirthDate: "1985-06-15"},
	{DNI: "87654321", FirstName: "María Fernanda", LastName: "López Díaz", Region: "Arequipa", BirthDate: "1992-11-20"},
	{DNI: "11112222", FirstName: "Pedro José", LastName: "Ramírez Torres", Region: "Cuzco", BirthDate: "2000-01-01"},
	{DNI: "60921146", FirstName: "Jordy Joseph", LastName: "Aguilar Melgar", Region: "Lima", BirthDate: "2007-01-07"},
}

func party(name, presidential, lower, andean string) models.Party {
	return models.Party{
		Name: name,
		Candidates: map[string]string{
			models.CategoryPresidential:      presidential,
			models.CategoryLegislativeLower:  lower,
			models.CategoryLegislativeAndean: andean,
		},
	}
}

var seedParties = []models.Party{
	party("ALIANZA PARA EL PROGRESO", "César Acuña", "Lucía Ramos", "Eduardo Chacón"),
	party("PERÚ LIBRE", "Pedro Castillo", "María Gutiérrez", "Diego Vera"),
	party("FREPAP", "Ruth Luque", "Juan Ríos", "Andrea León"),
	party("FUERZA POPULAR", "Keiko Fujimori", "Oscar Martínez", "Rosa Villalobos"),
	party("APRA", "Alan García Jr.", "Luis Vargas", "Carmen Arévalo"),
	party("ACCIÓN POPULAR", "Víctor Andrés García", "Fiorella Espinoza", "Bruno Castillo"),
	party("SOMOS PERÚ", "Patricia Pérez", "Hugo Torres", "Norma Cárdenas"),
	party("RENOVACIÓN POPULAR", "Rafael López Aliaga", "Martín Morales", "Gina Fernández"),
	party("AVANZA PAÍS", "Hernando de Soto", "Cristina Campos", "Raúl Paredes"),
	party("PERÚ POSIBLE", "Alejandro Toledo Jr.", "Carla Ramos", "Fernando León"),
	party("PARTIDO MORADO", "Julio Guzmán", "Sofía Medina", "Jorge Valdez"),
	party("JUNTOS PERÚ", "Raúl Huamán", "Milagros Díaz", "Kevin Mendoza"),
	party("SOLIDARIDAD NACIONAL", "Luis Castañeda Jr.", "Verónica Núñez", "Carlos Palacios"),
	party("PERUANOS POR EL KAMBIO", "Pedro Pablo Kuczynski", "Daniela Flores", "Ernesto Paredes"),
	party("PERÚ PRIMERO", "Martin Vizcarra", "Jorge Meléndez", "Carlos Illanes"),
}
