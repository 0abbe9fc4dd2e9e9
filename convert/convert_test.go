package convert

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"go.uber.org/zap"

	"bsp2map/bsp"
	"bsp2map/config"
)

// helpers building a synthetic bsp buffer

func buildBSP(t *testing.T, lumps map[int][]byte) []byte {
	t.Helper()
	const numLumps = 19
	type dir struct{ off, length uint32 }
	var dirs [numLumps]dir
	var body bytes.Buffer
	cur := 8 + numLumps*8
	for i := 0; i < numLumps; i++ {
		b, ok := lumps[i]
		if !ok {
			continue
		}
		dirs[i] = dir{uint32(cur), uint32(len(b))}
		body.Write(b)
		cur += len(b)
	}
	var out bytes.Buffer
	out.Write(bsp.Magic[:])
	binary.Write(&out, binary.LittleEndian, uint32(bsp.Version))
	for _, d := range dirs {
		binary.Write(&out, binary.LittleEndian, d.off)
		binary.Write(&out, binary.LittleEndian, d.length)
	}
	out.Write(body.Bytes())
	return out.Bytes()
}

func planeRec(nx, ny, nz, dist float32) []byte {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, [4]float32{nx, ny, nz, dist})
	binary.Write(&b, binary.LittleEndian, uint32(0))
	return b.Bytes()
}

func texInfoRec(name string) []byte {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, [4]float32{1, 0, 0, 0})
	binary.Write(&b, binary.LittleEndian, [4]float32{0, -1, 0, 0})
	binary.Write(&b, binary.LittleEndian, [2]uint32{0, 0})
	var n [32]byte
	copy(n[:], name)
	b.Write(n[:])
	binary.Write(&b, binary.LittleEndian, uint32(0))
	return b.Bytes()
}

func brushRec(first, num, contents uint32) []byte {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, [3]uint32{first, num, contents})
	return b.Bytes()
}

func sideRec(plane, tex uint16) []byte {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, [2]uint16{plane, tex})
	return b.Bytes()
}

func cat(bs ...[]byte) []byte {
	var out []byte
	for _, b := range bs {
		out = append(out, b...)
	}
	return out
}

const cubeEntities = `{
"classname" "worldspawn"
"message" "test level"
"wad" "old.wad"
"_tb_textures" "tb"
"mapversion" "120"
}
{
"classname" "info_player_start"
"origin" "0 0 24"
}
{
"classname" "func_areaportal"
"style" "1"
}
`

// cubeBSP is one solid 4-sided brush bounded at ±16 on X and Y.
func cubeBSP(t *testing.T) []byte {
	t.Helper()
	return buildBSP(t, map[int][]byte{
		bsp.LumpEntities: []byte(cubeEntities),
		bsp.LumpPlanes: cat(
			planeRec(1, 0, 0, 16),
			planeRec(-1, 0, 0, 16),
			planeRec(0, 1, 0, 16),
			planeRec(0, -1, 0, 16),
		),
		bsp.LumpTexInfo: texInfoRec("metal1_2"),
		bsp.LumpBrushes: brushRec(0, 4, bsp.ContentsSolid),
		bsp.LumpBrushSides: cat(
			sideRec(0, 0),
			sideRec(1, 0),
			sideRec(2, 0),
			sideRec(3, 0),
		),
	})
}

func testConverter() *Converter {
	return New(config.Default(), zap.NewNop())
}

func TestConvertCube(t *testing.T) {
	var out strings.Builder
	stats, err := testConverter().Run(cubeBSP(t), &out)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Valid != 1 {
		t.Errorf("valid = %d want 1", stats.Valid)
	}
	if stats.Skipped != 0 || stats.AreaPortals != 0 {
		t.Errorf("skipped = %d areaportals = %d want 0/0", stats.Skipped, stats.AreaPortals)
	}

	text := out.String()
	if got := strings.Count(text, " 0 1 1\n"); got != 4 {
		t.Errorf("got %d face lines want 4:\n%s", got, text)
	}
	wantFace := "( 16 -256 0 ) ( 16 256 0 ) ( 16 0 -256 ) base_metal/metal1_2 [ 1 0 0 0 ] [ 0 -1 0 0 ] 0 1 1\n"
	if !strings.Contains(text, wantFace) {
		t.Errorf("face line for +X plane missing:\n%s", text)
	}

	// merged worldspawn keys: message kept, tool/wad/version dropped
	if !strings.Contains(text, `"message" "test level"`) {
		t.Error("worldspawn message not merged")
	}
	if strings.Contains(text, "wad") || strings.Contains(text, "_tb_") {
		t.Error("dropped worldspawn keys leaked into output")
	}
	if got := strings.Count(text, "mapversion"); got != 1 {
		t.Errorf("mapversion appears %d times, want the regenerated one only", got)
	}

	// passthrough entities: player start yes, areaportal no
	if !strings.Contains(text, `"classname" "info_player_start"`) {
		t.Error("info_player_start not passed through")
	}
	if strings.Contains(text, "func_areaportal") {
		t.Error("func_areaportal entity must not be emitted")
	}

	if len(stats.TopTextures) == 0 || stats.TopTextures[0].Name != "base_metal/metal1_2" {
		t.Errorf("top textures = %+v", stats.TopTextures)
	}
	if stats.TopTextures[0].Count != 4 {
		t.Errorf("texture count = %d want 4", stats.TopTextures[0].Count)
	}
}

func TestConvertIdempotent(t *testing.T) {
	data := cubeBSP(t)
	var a, b strings.Builder
	if _, err := testConverter().Run(data, &a); err != nil {
		t.Fatal(err)
	}
	if _, err := testConverter().Run(data, &b); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("two runs over the same input differ")
	}
}

func TestConvertSkipRules(t *testing.T) {
	data := buildBSP(t, map[int][]byte{
		bsp.LumpPlanes: cat(
			planeRec(1, 0, 0, 16),
			planeRec(-1, 0, 0, 16),
			planeRec(0, 1, 0, 16),
			planeRec(0, -1, 0, 16),
		),
		bsp.LumpTexInfo: texInfoRec("metal1_2"),
		bsp.LumpBrushes: cat(
			brushRec(0, 3, bsp.ContentsSolid),      // too few sides
			brushRec(0, 4, 0),                      // empty contents
			brushRec(0, 4, bsp.ContentsAreaPortal), // area portal
			brushRec(0, 4, bsp.ContentsSolid),      // valid
		),
		bsp.LumpBrushSides: cat(
			sideRec(0, 0),
			sideRec(1, 0),
			sideRec(2, 0),
			sideRec(3, 0),
		),
	})

	var out strings.Builder
	stats, err := testConverter().Run(data, &out)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Valid != 1 {
		t.Errorf("valid = %d want 1", stats.Valid)
	}
	if stats.Skipped != 2 {
		t.Errorf("skipped = %d want 2", stats.Skipped)
	}
	if stats.AreaPortals != 1 {
		t.Errorf("areaportals = %d want 1", stats.AreaPortals)
	}
	if stats.SkipReasons[SkipTooFewSides] != 1 {
		t.Errorf("too-few-sides count = %d want 1", stats.SkipReasons[SkipTooFewSides])
	}
	if stats.SkipReasons[SkipEmptyContents] != 1 {
		t.Errorf("empty-contents count = %d want 1", stats.SkipReasons[SkipEmptyContents])
	}
	if stats.SkipReasons[SkipAreaPortal] != 1 {
		t.Errorf("area-portal count = %d want 1", stats.SkipReasons[SkipAreaPortal])
	}
}

func TestConvertUnresolvableSides(t *testing.T) {
	// the brush references sides far beyond the side array
	data := buildBSP(t, map[int][]byte{
		bsp.LumpPlanes:     planeRec(1, 0, 0, 16),
		bsp.LumpBrushes:    brushRec(100, 4, bsp.ContentsSolid),
		bsp.LumpBrushSides: sideRec(0, 0),
	})

	var out strings.Builder
	stats, err := testConverter().Run(data, &out)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Valid != 0 {
		t.Errorf("valid = %d want 0", stats.Valid)
	}
	if stats.SkipReasons[SkipUnresolvedSides] != 1 {
		t.Errorf("unresolved-sides count = %d want 1", stats.SkipReasons[SkipUnresolvedSides])
	}
}

func TestConvertDefaultTextureReference(t *testing.T) {
	// texinfo indices beyond the array resolve to the default record
	data := buildBSP(t, map[int][]byte{
		bsp.LumpPlanes: cat(
			planeRec(1, 0, 0, 16),
			planeRec(-1, 0, 0, 16),
			planeRec(0, 1, 0, 16),
			planeRec(0, -1, 0, 16),
		),
		bsp.LumpBrushes: brushRec(0, 4, bsp.ContentsSolid),
		bsp.LumpBrushSides: cat(
			sideRec(0, 9),
			sideRec(1, 9),
			sideRec(2, 9),
			sideRec(3, 9),
		),
	})

	var out strings.Builder
	stats, err := testConverter().Run(data, &out)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Valid != 1 {
		t.Errorf("valid = %d want 1", stats.Valid)
	}
	if stats.Fixed != 1 {
		t.Errorf("fixed = %d want 1", stats.Fixed)
	}
	def := config.Default().DefaultTexture
	if !strings.Contains(out.String(), def) {
		t.Errorf("faces should reference the default texture %q:\n%s", def, out.String())
	}
}

func TestConvertOversizeLumpCompletes(t *testing.T) {
	data := cubeBSP(t)
	// corrupt the brush side lump length so it reaches past the end
	dirOff := 8 + bsp.LumpBrushSides*8
	binary.LittleEndian.PutUint32(data[dirOff+4:], uint32(len(data)+512))

	var out strings.Builder
	stats, err := testConverter().Run(data, &out)
	if err != nil {
		t.Fatal(err)
	}
	// the brush loses all its sides and is skipped, everything else
	// still converts
	if stats.Valid != 0 {
		t.Errorf("valid = %d want 0", stats.Valid)
	}
	if stats.SkipReasons[SkipUnresolvedSides] != 1 {
		t.Errorf("unresolved-sides count = %d want 1", stats.SkipReasons[SkipUnresolvedSides])
	}
	if !strings.Contains(out.String(), `"classname" "worldspawn"`) {
		t.Error("worldspawn block missing")
	}
}

func TestConvertTooSmallBuffer(t *testing.T) {
	var out strings.Builder
	if _, err := testConverter().Run([]byte("IB"), &out); err == nil {
		t.Error("expected structural error for tiny buffer")
	}
	if out.String() != "" {
		t.Errorf("nothing should be written on structural failure, got %q", out.String())
	}
}
