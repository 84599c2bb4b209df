package audiofmt

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
)

// Format is a lossless container/codec pairing.
type Format struct {
	Name string
	// Ext is the canonical lower-case extension including the dot.
	Ext string
	// Muxer is passed to ffmpeg with -f so the output format never depends
	// on the (temporary) output file name.
	Muxer string
	// CodecArgs select the encoder for this format.
	CodecArgs []string
}

var (
	// ALAC is Apple Lossless in an M4A container. Embedded cover art is
	// carried over as a copied video stream.
	ALAC = Format{
		Name:      "ALAC",
		Ext:       ".m4a",
		Muxer:     "ipod",
		CodecArgs: []string{"-c:v", "copy", "-c:a", "alac"},
	}
	// FLAC is the Free Lossless Audio Codec.
	FLAC = Format{
		Name:      "FLAC",
		Ext:       ".flac",
		Muxer:     "flac",
		CodecArgs: []string{"-c:a", "flac"},
	}
)

var folder = cases.Fold()

// MatchesExt reports whether path carries this format's extension, ignoring case.
func (f Format) MatchesExt(path string) bool {
	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}
	return folder.String(ext) == folder.String(f.Ext)
}

// Direction is one conversion direction.
type Direction struct {
	Source Format
	Target Format
}

var (
	// ToFLAC converts ALAC (.m4a) files to FLAC.
	ToFLAC = Direction{Source: ALAC, Target: FLAC}
	// ToALAC converts FLAC files to ALAC (.m4a).
	ToALAC = Direction{Source: FLAC, Target: ALAC}
)

// String renders the direction as "ALAC -> FLAC".
func (d Direction) String() string {
	return d.Source.Name + " -> " + d.Target.Name
}

// ParseTarget resolves a target format name ("flac", "alac", "m4a") to
// the direction that produces it.
func ParseTarget(value string) (Direction, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(value), ".")) {
	case "flac":
		return ToFLAC, nil
	case "alac", "m4a":
		return ToALAC, nil
	default:
		return Direction{}, fmt.Errorf("unsupported target format %q (want flac or alac)", value)
	}
}
