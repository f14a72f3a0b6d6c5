package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// LoadScene loads a scene description, choosing the format by extension:
// .json files are decoded as JSON, everything else as the line-oriented text format.
func LoadScene(filename string) (*scene.Scene, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename cannot be empty")
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	var s *scene.Scene
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		s, err = ParseSceneJSON(file)
	} else {
		s, err = ParseScene(file)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// ParseScene parses the text scene format from an io.Reader. Each line holds
// one command:
//
//	NEAR n | LEFT l | RIGHT r | BOTTOM b | TOP t | RES x y
//	SPHERE name px py pz sx sy sz r g b Ka Kd Ks Kr n
//	LIGHT name px py pz ir ig ib
//	BACK r g b | AMBIENT r g b | OUTPUT file
//
// Blank lines, '#' comments and unknown commands are skipped. Fields left out
// of the file keep their zero value; malformed fields are errors.
func ParseScene(reader io.Reader) (*scene.Scene, error) {
	s := &scene.Scene{}

	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if err := parseLine(s, scanner.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return s, nil
}

// parseLine applies a single command line to the scene
func parseLine(s *scene.Scene, line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	command := strings.ToUpper(fields[0])
	args := fields[1:]

	switch command {
	case "NEAR":
		return parseFloatInto(command, args, &s.Camera.Near)
	case "LEFT":
		return parseFloatInto(command, args, &s.Camera.Left)
	case "RIGHT":
		return parseFloatInto(command, args, &s.Camera.Right)
	case "BOTTOM":
		return parseFloatInto(command, args, &s.Camera.Bottom)
	case "TOP":
		return parseFloatInto(command, args, &s.Camera.Top)
	case "RES":
		return parseResolution(s, args)
	case "SPHERE":
		sphere, err := parseSphere(args)
		if err != nil {
			return err
		}
		s.AddSphere(sphere)
	case "LIGHT":
		light, err := parseLight(args)
		if err != nil {
			return err
		}
		s.Lights = append(s.Lights, light)
	case "BACK":
		return parseVec3Into(command, args, &s.Background)
	case "AMBIENT":
		return parseVec3Into(command, args, &s.Ambient)
	case "OUTPUT":
		if len(args) < 1 {
			return fmt.Errorf("OUTPUT expects a file name")
		}
		s.OutputFile = args[0]
	}

	return nil
}

// fieldReader consumes whitespace-separated fields, remembering the first error
type fieldReader struct {
	command string
	args    []string
	pos     int
	err     error
}

func newFieldReader(command string, args []string, want int) *fieldReader {
	r := &fieldReader{command: command, args: args}
	if len(args) < want {
		r.err = fmt.Errorf("%s expects %d values, got %d", command, want, len(args))
	}
	return r
}

func (r *fieldReader) next() string {
	if r.err != nil {
		return ""
	}
	v := r.args[r.pos]
	r.pos++
	return v
}

func (r *fieldReader) float() float64 {
	raw := r.next()
	if r.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.err = fmt.Errorf("%s: invalid number %q", r.command, raw)
	}
	return v
}

func (r *fieldReader) vec3() core.Vec3 {
	x := r.float()
	y := r.float()
	z := r.float()
	return core.NewVec3(x, y, z)
}

func (r *fieldReader) integer() int {
	raw := r.next()
	if r.err != nil {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.err = fmt.Errorf("%s: invalid integer %q", r.command, raw)
	}
	return v
}

func parseFloatInto(command string, args []string, dst *float64) error {
	r := newFieldReader(command, args, 1)
	v := r.float()
	if r.err != nil {
		return r.err
	}
	*dst = v
	return nil
}

func parseVec3Into(command string, args []string, dst *core.Vec3) error {
	r := newFieldReader(command, args, 3)
	v := r.vec3()
	if r.err != nil {
		return r.err
	}
	*dst = v
	return nil
}

func parseResolution(s *scene.Scene, args []string) error {
	r := newFieldReader("RES", args, 2)
	width := r.integer()
	height := r.integer()
	if r.err != nil {
		return r.err
	}
	s.Width, s.Height = width, height
	return nil
}

func parseSphere(args []string) (geometry.Sphere, error) {
	r := newFieldReader("SPHERE", args, 15)
	sphere := geometry.Sphere{
		Name:   r.next(),
		Center: r.vec3(),
		Scale:  r.vec3(),
	}
	sphere.Material.Color = r.vec3()
	sphere.Material.Ka = r.float()
	sphere.Material.Kd = r.float()
	sphere.Material.Ks = r.float()
	sphere.Material.Kr = r.float()
	sphere.Material.N = r.integer()
	if r.err != nil {
		return geometry.Sphere{}, r.err
	}
	if sphere.Material.N < 0 {
		return geometry.Sphere{}, fmt.Errorf("SPHERE %s: specular exponent must be non-negative, got %d", sphere.Name, sphere.Material.N)
	}
	return sphere, nil
}

func parseLight(args []string) (scene.Light, error) {
	r := newFieldReader("LIGHT", args, 7)
	light := scene.Light{
		Name:      r.next(),
		Position:  r.vec3(),
		Intensity: r.vec3(),
	}
	if r.err != nil {
		return scene.Light{}, r.err
	}
	return light, nil
}
