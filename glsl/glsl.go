// Package glsl generates OpenGL shading language sources for gshape meshes.
// Vertex shader inputs are derived from a [gshape.VertexType] so a program
// declares exactly the attributes a compiled mesh carries.
package glsl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gshape"
)

const VersionStr = "#version 460\n"

// Uniform names shared by all generated programs. Names are NUL terminated
// for direct use with glgl.
const (
	UniformModel        = "uModel\x00"
	UniformView         = "uView\x00"
	UniformProj         = "uProj\x00"
	UniformColor        = "uColor\x00"
	UniformVectorLength = "uVectorLength\x00"
)

var attribNames = [...]string{
	gshape.AttribPos:      "aPos",
	gshape.AttribColor3:   "aColor3",
	gshape.AttribColor4:   "aColor4",
	gshape.AttribNormal:   "aNormal",
	gshape.AttribTexCoord: "aTexCoord",
	gshape.AttribCube:     "aCube",
	gshape.AttribBinormal: "aBinormal",
	gshape.AttribWeight:   "aWeight",
	gshape.AttribAdj1:     "aAdj1",
	gshape.AttribAdj2:     "aAdj2",
}

// AttribName returns the vertex shader input variable name of a.
func AttribName(a gshape.Attrib) string {
	if int(a) >= len(attribNames) {
		return "aInvalid" + strconv.Itoa(int(a))
	}
	return attribNames[a]
}

// AttribType returns the GLSL type of a: float, vec2, vec3 or vec4.
func AttribType(a gshape.Attrib) string {
	switch a.Width() {
	case 1:
		return "float"
	case 2:
		return "vec2"
	case 3:
		return "vec3"
	case 4:
		return "vec4"
	}
	panic("unsupported attribute width")
}

// AppendAttribDecls appends one input declaration per attribute in vt in
// interleave order.
func AppendAttribDecls(b []byte, vt gshape.VertexType) []byte {
	for _, a := range gshape.Attribs() {
		if !vt.Has(a) {
			continue
		}
		b = append(b, "in "...)
		b = append(b, AttribType(a)...)
		b = append(b, ' ')
		b = append(b, AttribName(a)...)
		b = append(b, ';', '\n')
	}
	return b
}

// Style selects how a generated program colors a mesh.
type Style uint8

const (
	// StylePlain draws with the uColor uniform.
	StylePlain Style = iota
	// StyleLit applies a directional light to uColor using vertex normals.
	StyleLit
	// StyleColor draws per-vertex colors.
	StyleColor
	// StyleTexCoord visualizes texture coordinates.
	StyleTexCoord
	// StyleCube colors by cube map direction.
	StyleCube
	// StyleVectors displaces vertices of weight 1 along their normal by
	// uVectorLength. Used with degenerate point shapes to draw normals.
	StyleVectors
	// StyleBinormals is StyleVectors along the binormal.
	StyleBinormals
	numStyles
)

var styleNames = [numStyles]string{
	StylePlain:     "plain",
	StyleLit:       "lit",
	StyleColor:     "color",
	StyleTexCoord:  "texcoord",
	StyleCube:      "cube",
	StyleVectors:   "vectors",
	StyleBinormals: "binormals",
}

func (s Style) String() string {
	if s >= numStyles {
		return "Style(" + strconv.Itoa(int(s)) + ")"
	}
	return styleNames[s]
}

// ParseStyle returns the style named s.
func ParseStyle(s string) (Style, error) {
	for i, name := range styleNames {
		if name == s {
			return Style(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shader style %q", s)
}

// Requires returns the attributes a program of style s reads.
func (s Style) Requires() gshape.VertexType {
	switch s {
	case StyleLit:
		return gshape.VertexPos | gshape.VertexNormal
	case StyleColor:
		return gshape.VertexPos | gshape.VertexColor3
	case StyleTexCoord:
		return gshape.VertexPos | gshape.VertexTexCoord
	case StyleCube:
		return gshape.VertexPos | gshape.VertexCube
	case StyleVectors:
		return gshape.VertexPos | gshape.VertexNormal | gshape.VertexWeight
	case StyleBinormals:
		return gshape.VertexPos | gshape.VertexBinormal | gshape.VertexWeight
	}
	return gshape.VertexPos
}

// Programmer implements shader generation for gshape meshes.
type Programmer struct {
	scratch []byte
	// Light is the direction towards the light used by [StyleLit].
	Light ms3.Vec
}

// NewDefaultProgrammer returns a Programmer with a light over the right shoulder.
func NewDefaultProgrammer() *Programmer {
	return &Programmer{
		scratch: make([]byte, 0, 1024),
		Light:   ms3.Vec{X: 0.57735, Y: 0.57735, Z: 0.57735},
	}
}

// WriteVertex writes a vertex shader of the given style declaring exactly
// the attributes in vt. vt must contain style.Requires().
func (p *Programmer) WriteVertex(w io.Writer, style Style, vt gshape.VertexType) (int, error) {
	if style >= numStyles {
		return 0, errors.New("invalid shader style")
	}
	if missing := style.Requires() &^ vt; missing != 0 {
		return 0, fmt.Errorf("%s shader requires attributes %s", style, missing)
	}
	b := p.scratch[:0]
	b = append(b, VersionStr...)
	b = AppendAttribDecls(b, vt)
	b = append(b, `uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;
uniform vec3 uColor;
uniform float uVectorLength;
out vec3 vColor;
`...)
	b = append(b, "const "...)
	b = AppendVec3Decl(b, "light", p.Light)
	b = append(b, "void main() {\n\tvec3 pos = aPos;\n"...)
	switch style {
	case StylePlain:
		b = append(b, "\tvColor = uColor;\n"...)
	case StyleLit:
		b = append(b, `	vec3 n = normalize(mat3(uModel) * aNormal);
	float dif = clamp(dot(n, normalize(light)), 0.0, 1.0);
	vColor = uColor * (0.3 + 0.7*dif);
`...)
	case StyleColor:
		b = append(b, "\tvColor = aColor3;\n"...)
	case StyleTexCoord:
		b = append(b, "\tvColor = vec3(aTexCoord, 0.5);\n"...)
	case StyleCube:
		b = append(b, "\tvColor = 0.5 + 0.5*aCube;\n"...)
	case StyleVectors, StyleBinormals:
		dir := AttribName(gshape.AttribNormal)
		if style == StyleBinormals {
			dir = AttribName(gshape.AttribBinormal)
		}
		b = append(b, "\tpos += aWeight * uVectorLength * "...)
		b = append(b, dir...)
		b = append(b, ";\n\tvColor = mix(uColor, vec3(1.0), aWeight);\n"...)
	}
	b = append(b, "\tgl_Position = uProj * uView * uModel * vec4(pos, 1.0);\n}\n"...)
	p.scratch = b
	return w.Write(b)
}

// WriteFragment writes the fragment shader shared by all styles.
func (p *Programmer) WriteFragment(w io.Writer) (int, error) {
	return io.WriteString(w, VersionStr+`in vec3 vColor;
out vec4 fragColor;
void main() {
	fragColor = vec4(vColor, 1.0);
}
`)
}

// Sources returns NUL terminated vertex and fragment sources ready to be
// compiled with glgl.
func (p *Programmer) Sources(style Style, vt gshape.VertexType) (vertex, fragment string, err error) {
	var buf bytes.Buffer
	_, err = p.WriteVertex(&buf, style, vt)
	if err != nil {
		return "", "", err
	}
	buf.WriteByte(0)
	vertex = buf.String()
	buf.Reset()
	_, err = p.WriteFragment(&buf)
	if err != nil {
		return "", "", err
	}
	buf.WriteByte(0)
	return vertex, buf.String(), nil
}

func AppendVec3Decl(b []byte, vec3Varname string, v ms3.Vec) []byte {
	b = append(b, "vec3 "...)
	b = append(b, vec3Varname...)
	b = append(b, "=vec3("...)
	b = AppendFloats(b, ',', '-', '.', v.X, v.Y, v.Z)
	b = append(b, ')', ';', '\n')
	return b
}

const decimalDigits = 9

// AppendFloat appends v in GLSL literal form using neg as the sign character
// and decimal as the decimal separator. Trailing zeros are trimmed.
func AppendFloat(b []byte, neg, decimal byte, v float32) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, float64(v), 'f', decimalDigits, 32)
	idx := bytes.IndexByte(b[start:], '.')
	if decimal != '.' && idx >= 0 {
		b[start+idx] = decimal
	}
	if b[start] == '-' {
		b[start] = neg
	}
	// Finally trim zeroes.
	end := len(b)
	for i := len(b) - 1; idx >= 0 && i > idx+start+1 && b[i] == '0'; i-- {
		end--
	}
	return b[:end]
}

func AppendFloats(b []byte, sep, neg, decimal byte, s ...float32) []byte {
	for i, v := range s {
		b = AppendFloat(b, neg, decimal, v)
		if sep != 0 && i != len(s)-1 {
			b = append(b, sep)
		}
	}
	return b
}
