package constants

type VehicleType string

const (
	VehiclePrivate VehicleType = "Hususi"
	VehicleVan     VehicleType = "Kamyonet"
	VehicleTruck   VehicleType = "Kamyon"
	VehicleMinibus VehicleType = "Minibüs"
	VehicleBus     VehicleType = "Otobüs"
	VehicleTaxi    VehicleType = "Taksi"
)

// VehicleTypes holds the allowed values for vehicles.type.
var VehicleTypes = []string{
	string(VehiclePrivate),
	string(VehicleVan),
	string(VehicleTruck),
	string(VehicleMinibus),
	string(VehicleBus),
	string(VehicleTaxi),
}
