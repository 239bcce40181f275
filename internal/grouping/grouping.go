// Package grouping buckets associated image descriptions into report sections.
package grouping

import "github.com/vistoria-app/vistoria/internal/models"

// Group buckets descriptions by their exact Room value. Rooms appear in the
// order they are first seen and entries keep their input order.
func Group(descriptions []models.ImageDescription) models.GroupedRooms {
	groups := models.GroupedRooms{}
	index := make(map[string]int)

	for _, desc := range descriptions {
		i, ok := index[desc.Room]
		if !ok {
			i = len(groups)
			index[desc.Room] = i
			groups = append(groups, models.RoomGroup{Room: desc.Room})
		}
		groups[i].Entries = append(groups[i].Entries, desc)
	}

	return groups
}
