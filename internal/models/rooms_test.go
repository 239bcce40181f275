package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseDeclaredRoomsKeepsOrder(t *testing.T) {
	rooms, err := ParseDeclaredRooms(`{"Sala": "sala", "A": "q", "Banheiro Social": "banheiro", "B": "qu"}`)
	require.NoError(t, err)

	assert.Equal(t, DeclaredRooms{
		{Label: "Sala", Token: "sala"},
		{Label: "A", Token: "q"},
		{Label: "Banheiro Social", Token: "banheiro"},
		{Label: "B", Token: "qu"},
	}, rooms)
}

func TestParseDeclaredRoomsDuplicateLabels(t *testing.T) {
	rooms, err := ParseDeclaredRooms(`{"Sala": "sala", "Cozinha": "coz", "Sala": "estar"}`)
	require.NoError(t, err)

	assert.Equal(t, DeclaredRooms{
		{Label: "Sala", Token: "estar"},
		{Label: "Cozinha", Token: "coz"},
	}, rooms)

	var fromYAML struct {
		Rooms DeclaredRooms `yaml:"rooms"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("rooms:\n  Sala: sala\n  Cozinha: coz\n  Sala: estar\n"), &fromYAML))
	assert.Equal(t, rooms, fromYAML.Rooms)
}

func TestParseDeclaredRoomsErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `{"Sala": `},
		{name: "array", raw: `["sala"]`},
		{name: "number value", raw: `{"Sala": 1}`},
		{name: "nested value", raw: `{"Sala": {"token": "sala"}}`},
		{name: "null value", raw: `{"Sala": null}`},
		{name: "null", raw: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDeclaredRooms(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestParseDeclaredRoomsEmpty(t *testing.T) {
	rooms, err := ParseDeclaredRooms("")
	require.NoError(t, err)
	assert.Empty(t, rooms)

	rooms, err = ParseDeclaredRooms("{}")
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestParseObservations(t *testing.T) {
	observations, err := ParseObservations(`{"Cozinha_1": "piso arranhado", "Sala_2": ""}`)
	require.NoError(t, err)
	assert.Equal(t, ObservationMap{"Cozinha_1": "piso arranhado", "Sala_2": ""}, observations)

	_, err = ParseObservations(`{"Cozinha_1": true}`)
	assert.ErrorContains(t, err, "Cozinha_1")

	_, err = ParseObservations(`"texto"`)
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestDeclaredRoomsYAMLKeepsOrder(t *testing.T) {
	var manifest struct {
		Rooms DeclaredRooms `yaml:"rooms"`
	}
	doc := `
rooms:
  Quarto Suíte: quarto_1
  Cozinha: cozinha
  Área de Serviço: area
`
	require.NoError(t, yaml.Unmarshal([]byte(doc), &manifest))

	assert.Equal(t, DeclaredRooms{
		{Label: "Quarto Suíte", Token: "quarto_1"},
		{Label: "Cozinha", Token: "cozinha"},
		{Label: "Área de Serviço", Token: "area"},
	}, manifest.Rooms)
}

func TestDeclaredRoomsYAMLRejectsSequences(t *testing.T) {
	var manifest struct {
		Rooms DeclaredRooms `yaml:"rooms"`
	}
	err := yaml.Unmarshal([]byte("rooms:\n  - cozinha\n"), &manifest)
	assert.Error(t, err)
}

func TestWithDefaults(t *testing.T) {
	meta := InspectionMetadata{Landlord: "Maria"}.WithDefaults()

	assert.Equal(t, "Maria", meta.Landlord)
	assert.Equal(t, NotSpecified, meta.Tenant)
	assert.Equal(t, DateNotSpecified, meta.StartDate)
	assert.Equal(t, InspectorNotSpecified, meta.InspectorName)
	assert.Empty(t, meta.GeneralObservations)
}

func TestGroupedRoomsTotalEntries(t *testing.T) {
	groups := GroupedRooms{
		{Room: "Sala", Entries: []ImageDescription{{Image: "a"}, {Image: "b"}}},
		{Room: "Cozinha", Entries: []ImageDescription{{Image: "c"}}},
	}
	assert.Equal(t, 3, groups.TotalEntries())
}
