// Package webmtest builds small WebM files for tests.
package webmtest

import (
	"bytes"
	"testing"

	"github.com/at-wat/ebml-go"
)

const (
	TrackVideo = 1
	TrackAudio = 2
)

type Track struct {
	Number  uint64
	Type    uint64
	CodecID string
	Width   uint64
	Height  uint64
}

// Block is one SimpleBlock. Blocks with more than one chunk are Xiph laced.
type Block struct {
	Track    uint64
	Timecode int16
	Chunks   [][]byte
}

type document struct {
	Header  header  `ebml:"EBML"`
	Segment segment `ebml:"Segment"`
}

type header struct {
	EBMLVersion     uint64 `ebml:"EBMLVersion"`
	EBMLReadVersion uint64 `ebml:"EBMLReadVersion"`
	EBMLDocType     string `ebml:"EBMLDocType"`
}

type segment struct {
	Info    info      `ebml:"Info"`
	Tracks  tracks    `ebml:"Tracks"`
	Cluster []cluster `ebml:"Cluster"`
}

type info struct {
	TimecodeScale uint64 `ebml:"TimecodeScale"`
}

type tracks struct {
	TrackEntry []trackEntry `ebml:"TrackEntry"`
}

type trackEntry struct {
	TrackNumber uint64 `ebml:"TrackNumber"`
	TrackUID    uint64 `ebml:"TrackUID"`
	TrackType   uint64 `ebml:"TrackType"`
	CodecID     string `ebml:"CodecID"`
	Video       video  `ebml:"Video"`
}

type video struct {
	PixelWidth  uint64 `ebml:"PixelWidth"`
	PixelHeight uint64 `ebml:"PixelHeight"`
}

type cluster struct {
	Timecode    uint64       `ebml:"Timecode"`
	SimpleBlock []ebml.Block `ebml:"SimpleBlock"`
}

// Build marshals a WebM file with one cluster per element of clusters.
func Build(t testing.TB, docType string, trackList []Track, clusters ...[]Block) []byte {
	t.Helper()

	doc := document{
		Header: header{
			EBMLVersion:     1,
			EBMLReadVersion: 1,
			EBMLDocType:     docType,
		},
		Segment: segment{
			Info: info{TimecodeScale: 1_000_000},
		},
	}
	for _, tr := range trackList {
		doc.Segment.Tracks.TrackEntry = append(doc.Segment.Tracks.TrackEntry, trackEntry{
			TrackNumber: tr.Number,
			TrackUID:    tr.Number,
			TrackType:   tr.Type,
			CodecID:     tr.CodecID,
			Video: video{
				PixelWidth:  tr.Width,
				PixelHeight: tr.Height,
			},
		})
	}
	for i, blocks := range clusters {
		c := cluster{Timecode: uint64(i) * 1000}
		for _, b := range blocks {
			lacing := ebml.LacingNo
			if len(b.Chunks) > 1 {
				lacing = ebml.LacingXiph
			}
			c.SimpleBlock = append(c.SimpleBlock, ebml.Block{
				TrackNumber: b.Track,
				Timecode:    b.Timecode,
				Keyframe:    true,
				Lacing:      lacing,
				Data:        b.Chunks,
			})
		}
		doc.Segment.Cluster = append(doc.Segment.Cluster, c)
	}

	var buf bytes.Buffer
	if err := ebml.Marshal(&doc, &buf); err != nil {
		t.Fatalf("marshal webm: %v", err)
	}
	return buf.Bytes()
}
