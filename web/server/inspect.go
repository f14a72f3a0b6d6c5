package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit        bool                   `json:"hit"`
	SphereName string                 `json:"sphereName,omitempty"`
	Point      [3]float64             `json:"point"`
	Normal     [3]float64             `json:"normal"`
	Distance   float64                `json:"distance"`
	Color      [3]float64             `json:"color"` // Shaded color at this pixel
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// inspectPixel casts the primary ray through pixel (x, y), with row 0 at the
// top of the displayed image, and describes the nearest sphere
func inspectPixel(sceneObj *scene.Scene, config renderer.RenderConfig, pixelX, pixelY int) InspectResponse {
	rt := renderer.NewRaytracer(sceneObj, config, renderer.NopLogger{})

	// Framebuffer rows run bottom-up
	ray := rt.PrimaryRay(pixelX, sceneObj.Height-1-pixelY)
	color := rt.Trace(ray, 0)

	response := InspectResponse{Color: [3]float64{color.X, color.Y, color.Z}}
	hit, ok := rt.ClosestHit(ray)
	if !ok {
		return response
	}

	sphere := sceneObj.Spheres[hit.SphereIndex]
	mat := sphere.Material
	response.Hit = true
	response.SphereName = sphere.Name
	response.Point = [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z}
	response.Normal = [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z}
	response.Distance = hit.T
	response.Properties = map[string]interface{}{
		"center": [3]float64{sphere.Center.X, sphere.Center.Y, sphere.Center.Z},
		"radius": sphere.Radius(),
		"color": fmt.Sprintf("#%02x%02x%02x",
			int(min(mat.Color.X, 1)*255), int(min(mat.Color.Y, 1)*255), int(min(mat.Color.Z, 1)*255)),
		"ka": mat.Ka,
		"kd": mat.Kd,
		"ks": mat.Ks,
		"kr": mat.Kr,
		"n":  mat.N,
	}
	return response
}

// handleInspect reports what the primary ray through a pixel hits
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Width > 0 {
		sceneObj.Width = req.Width
	}
	if req.Height > 0 {
		sceneObj.Height = req.Height
	}
	if err := sceneObj.Validate(); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := r.URL.Query()
	pixelX, err := parseIntParam(query, "x", -1, 0, sceneObj.Width-1)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	pixelY, err := parseIntParam(query, "y", -1, 0, sceneObj.Height-1)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if pixelX < 0 || pixelY < 0 {
		writeJSONError(w, http.StatusBadRequest, "x and y are required")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(inspectPixel(sceneObj, req.renderConfig(), pixelX, pixelY))
}
