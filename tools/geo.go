package tools

import (
	"encoding/json"
	"fmt"
	"math"
)

const earthRadiusMeters = 6371000.0

// GeoPoint é um vértice do talhão desenhado pelo produtor no mapa.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PolygonAreaHectares calcula a área de um polígono geográfico em hectares
// (fórmula do cadarço sobre projeção equiretangular centrada na latitude
// média). Preciso o suficiente pra talhões; arredonda em 2 casas.
func PolygonAreaHectares(points []GeoPoint) (float64, error) {
	if len(points) < 3 {
		return 0, fmt.Errorf("polygon needs at least 3 points, got %d", len(points))
	}

	var meanLat float64
	for _, p := range points {
		meanLat += p.Lat
	}
	meanLat /= float64(len(points))
	cosLat := math.Cos(meanLat * math.Pi / 180)

	// projeta pra metros
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = earthRadiusMeters * (p.Lng * math.Pi / 180) * cosLat
		ys[i] = earthRadiusMeters * (p.Lat * math.Pi / 180)
	}

	// shoelace
	var sum float64
	n := len(points)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += xs[i]*ys[j] - xs[j]*ys[i]
	}
	areaM2 := math.Abs(sum) / 2

	hectares := areaM2 / 10000
	return math.Round(hectares*100) / 100, nil
}

// ParsePolygon decodifica o JSON enviado na resposta de item tipo "map".
func ParsePolygon(raw string) ([]GeoPoint, error) {
	var pts []GeoPoint
	if err := json.Unmarshal([]byte(raw), &pts); err != nil {
		return nil, fmt.Errorf("invalid polygon json: %w", err)
	}
	return pts, nil
}
