package arcgis

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Layer describes the feature layer the pipelines write to.
type Layer struct {
	ID            int
	Name          string
	ObjectIDField string
}

// LayerURLs are the three endpoints derived from a layer id.
type LayerURLs struct {
	Layer      string
	Query      string
	ApplyEdits string
}

var countyLayerRe = regexp.MustCompile(`\bcount(y|ies)\b`)

type serviceInfo struct {
	Layers []struct {
		ID int `json:"id"`
	} `json:"layers"`
	Error *apiError `json:"error"`
}

type layerInfo struct {
	Name          string    `json:"name"`
	GeometryType  string    `json:"geometryType"`
	ObjectIDField string    `json:"objectIdField"`
	Error         *apiError `json:"error"`
}

// PickPolygonLayer resolves the polygon layer that best matches a county
// layer: layers named like "counties" score over other polygon layers, ties
// break on the lower id. Non-polygon layers are ignored. Errors when the
// service exposes no polygon layer at all.
func (c *Client) PickPolygonLayer(ctx context.Context) (Layer, error) {
	var root serviceInfo
	if err := c.getJSON(ctx, c.serviceRoot+"?f=json", &root); err != nil {
		return Layer{}, err
	}
	if root.Error != nil {
		return Layer{}, fmt.Errorf("read service catalog: %w", root.Error)
	}

	best := Layer{ID: -1}
	bestScore := 0
	for _, l := range root.Layers {
		url := fmt.Sprintf("%s/%d?f=json", c.serviceRoot, l.ID)
		var info layerInfo
		if err := c.getJSON(ctx, url, &info); err != nil {
			return Layer{}, err
		}
		if info.Error != nil {
			return Layer{}, fmt.Errorf("read layer %d: %w", l.ID, info.Error)
		}
		if info.GeometryType != "esriGeometryPolygon" {
			continue
		}
		score := 1
		if countyLayerRe.MatchString(strings.ToLower(info.Name)) {
			score = 2
		}
		if score > bestScore || (score == bestScore && best.ID >= 0 && l.ID < best.ID) {
			oid := info.ObjectIDField
			if oid == "" {
				oid = "OBJECTID"
			}
			best = Layer{ID: l.ID, Name: info.Name, ObjectIDField: oid}
			bestScore = score
		}
	}
	if best.ID < 0 {
		return Layer{}, errors.New("no polygon layers found")
	}

	c.logger.Info("resolved county layer",
		"layer_id", best.ID, "name", best.Name, "oid_field", best.ObjectIDField)
	return best, nil
}

// LayerURLs derives the layer root, query, and apply-edits endpoints.
func (c *Client) LayerURLs(layerID int) LayerURLs {
	base := fmt.Sprintf("%s/%d", c.serviceRoot, layerID)
	return LayerURLs{
		Layer:      base,
		Query:      base + "/query",
		ApplyEdits: base + "/applyEdits",
	}
}
