package search

import (
	"github.com/kilianp07/hangar/core/geometry"
	"github.com/kilianp07/hangar/core/model"
)

func adjOf(h *model.Hangar) *geometry.Adjacency { return geometry.BuildAdjacency(h) }

func effective(ac model.AircraftType) geometry.Dimensions { return geometry.Effective(ac, nil) }
