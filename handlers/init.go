package handlers

import (
	"palika_profile/repository"
)

// Repositories shared by the handler functions, wired once at startup.
// Tests swap these for repositories backed by mock connections.
var (
	wardStatsRepo   *repository.WardStatsRepo
	roadsRepo       *repository.RoadsRepo
	parkingRepo     *repository.ParkingRepo
	petrolPumpsRepo *repository.PetrolPumpsRepo
	transportRepo   *repository.TransportRepo
)

func Init(
	wardStats *repository.WardStatsRepo,
	roads *repository.RoadsRepo,
	parking *repository.ParkingRepo,
	petrolPumps *repository.PetrolPumpsRepo,
	transport *repository.TransportRepo,
) {
	wardStatsRepo = wardStats
	roadsRepo = roads
	parkingRepo = parking
	petrolPumpsRepo = petrolPumps
	transportRepo = transport
}
