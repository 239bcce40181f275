package models

// RoomNotSpecified is the room assigned to an image when no declared token matches its key.
const RoomNotSpecified = "Cômodo não especificado"

// Placeholders used when an inspection metadata field is not supplied.
const (
	NotSpecified          = "Não especificado"
	DateNotSpecified      = "Não especificada"
	InspectorNotSpecified = "Vistoriador não identificado"
)

// UploadedImage is an image saved into a request workspace
type UploadedImage struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// ImageDescription pairs an image with its generated description and the
// room and observation it was associated with.
type ImageDescription struct {
	Image       string `json:"image" yaml:"image" parquet:"image"`
	Description string `json:"description" yaml:"description" parquet:"description"`
	Room        string `json:"room" yaml:"room,omitempty" parquet:"room"`
	Observation string `json:"observation" yaml:"observation,omitempty" parquet:"observation"`
}

// RoomGroup is one report section: a resolved room and its images in input order.
type RoomGroup struct {
	Room    string             `json:"room"`
	Entries []ImageDescription `json:"entries"`
}

// GroupedRooms lists report sections in first-seen order.
type GroupedRooms []RoomGroup

// TotalEntries returns the number of image descriptions across all rooms.
func (g GroupedRooms) TotalEntries() int {
	n := 0
	for _, group := range g {
		n += len(group.Entries)
	}
	return n
}

// InspectionMetadata holds the header fields printed on the report
type InspectionMetadata struct {
	InspectionType      string `json:"tipo_vistoria" yaml:"tipo_vistoria"`
	BuildingName        string `json:"nome_edificio" yaml:"nome_edificio"`
	Landlord            string `json:"locador" yaml:"locador"`
	Tenant              string `json:"locatario" yaml:"locatario"`
	StartDate           string `json:"data_inicio" yaml:"data_inicio"`
	Address             string `json:"endereco_imovel" yaml:"endereco_imovel"`
	UnitNumber          string `json:"numero_apartamento" yaml:"numero_apartamento"`
	InspectorName       string `json:"nome_vistoriador" yaml:"nome_vistoriador"`
	GeneralObservations string `json:"observacoes_gerais,omitempty" yaml:"observacoes_gerais,omitempty"`
}

// WithDefaults returns a copy with every empty field replaced by its placeholder.
// GeneralObservations stays empty since the report omits that block when unset.
func (m InspectionMetadata) WithDefaults() InspectionMetadata {
	m.InspectionType = orDefault(m.InspectionType, NotSpecified)
	m.BuildingName = orDefault(m.BuildingName, NotSpecified)
	m.Landlord = orDefault(m.Landlord, NotSpecified)
	m.Tenant = orDefault(m.Tenant, NotSpecified)
	m.StartDate = orDefault(m.StartDate, DateNotSpecified)
	m.Address = orDefault(m.Address, NotSpecified)
	m.UnitNumber = orDefault(m.UnitNumber, NotSpecified)
	m.InspectorName = orDefault(m.InspectorName, InspectorNotSpecified)
	return m
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
