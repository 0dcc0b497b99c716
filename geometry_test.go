package fatscan

import (
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"github.com/aligator/fatscan/fixture"
)

func bootSector(g fixture.Geometry) []byte {
	return fixture.NewBuilder(g).Bytes()[:ReservedSectorSize]
}

func TestParseGeometry(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    Geometry
		wantErr error
	}{
		{
			name:  "forensic sample",
			input: bootSector(fixture.ForensicGeometry()),
			want: Geometry{
				BytesPerSector:      512,
				SectorsPerCluster:   2,
				ReservedSectors:     414,
				NumberOfFATs:        2,
				TotalSectors:        2060288,
				SectorsPerFAT:       7985,
				RootDirFirstCluster: 2,
				BytesPerCluster:     1024,
				FAT0Start:           414,
				FAT0End:             8398,
				DataStart:           16384,
				DataEnd:             2060287,
			},
		},
		{
			name:    "truncated",
			input:   make([]byte, 100),
			wantErr: ErrTruncated,
		},
		{
			name:    "empty sector",
			input:   make([]byte, 512),
			wantErr: ErrInvalidBootSector,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGeometry(tt.input, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseGeometry() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseGeometry() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseGeometry_TotalSectors16(t *testing.T) {
	boot := bootSector(fixture.SmallGeometry())
	binary.LittleEndian.PutUint16(boot[19:21], 2000)
	binary.LittleEndian.PutUint32(boot[32:36], 99999)

	got, err := ParseGeometry(boot, false)
	if err != nil {
		t.Fatalf("ParseGeometry() error = %v", err)
	}
	if got.TotalSectors != 2000 {
		t.Errorf("ParseGeometry().TotalSectors = %v, want 2000", got.TotalSectors)
	}
	if got.DataEnd != 1999 {
		t.Errorf("ParseGeometry().DataEnd = %v, want 1999", got.DataEnd)
	}
}

func TestParseGeometry_SkipChecks(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(boot []byte)
		wantErr     error
		wantRelaxed error
	}{
		{
			name:        "odd sector size",
			modify:      func(boot []byte) { binary.LittleEndian.PutUint16(boot[11:13], 544) },
			wantErr:     ErrInvalidBootSector,
			wantRelaxed: nil,
		},
		{
			name:        "three sectors per cluster",
			modify:      func(boot []byte) { boot[13] = 3 },
			wantErr:     ErrInvalidBootSector,
			wantRelaxed: nil,
		},
		{
			name:        "no FATs",
			modify:      func(boot []byte) { boot[16] = 0 },
			wantErr:     ErrInvalidBootSector,
			wantRelaxed: nil,
		},
		{
			name:        "no sectors per cluster",
			modify:      func(boot []byte) { boot[13] = 0 },
			wantErr:     ErrInvalidBootSector,
			wantRelaxed: ErrInvalidBootSector,
		},
		{
			name:        "no sectors per FAT",
			modify:      func(boot []byte) { binary.LittleEndian.PutUint32(boot[36:40], 0) },
			wantErr:     ErrInvalidBootSector,
			wantRelaxed: ErrInvalidBootSector,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boot := bootSector(fixture.SmallGeometry())
			tt.modify(boot)

			if _, err := ParseGeometry(boot, false); !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseGeometry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if _, err := ParseGeometry(boot, true); !errors.Is(err, tt.wantRelaxed) {
				t.Errorf("ParseGeometry(skipChecks) error = %v, wantErr %v", err, tt.wantRelaxed)
			}
		})
	}
}

func TestGeometry_Invariants(t *testing.T) {
	for _, fg := range []fixture.Geometry{fixture.ForensicGeometry(), fixture.SmallGeometry()} {
		g, err := ParseGeometry(bootSector(fg), false)
		if err != nil {
			t.Fatalf("ParseGeometry() error = %v", err)
		}

		if g.DataStart != uint64(g.ReservedSectors)+uint64(g.SectorsPerFAT)*uint64(g.NumberOfFATs) {
			t.Errorf("DataStart = %v does not follow the FATs", g.DataStart)
		}
		if g.FAT0End != uint64(g.ReservedSectors)+uint64(g.SectorsPerFAT)-1 {
			t.Errorf("FAT0End = %v does not end the first FAT", g.FAT0End)
		}
		if g.DataEnd != uint64(g.TotalSectors)-1 {
			t.Errorf("DataEnd = %v, want %v", g.DataEnd, g.TotalSectors-1)
		}
	}
}

func TestGeometry_ClusterToSector(t *testing.T) {
	g, err := ParseGeometry(bootSector(fixture.ForensicGeometry()), false)
	if err != nil {
		t.Fatalf("ParseGeometry() error = %v", err)
	}

	tests := []struct {
		name    string
		cluster uint32
		want    uint64
		wantErr error
	}{
		{name: "first data cluster", cluster: 2, want: 16384},
		{name: "system directory", cluster: 3, want: 16386},
		{name: "ascii file", cluster: 7, want: 16394},
		{name: "cluster 0", cluster: 0, wantErr: ErrClusterRange},
		{name: "cluster 1", cluster: 1, wantErr: ErrClusterRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.ClusterToSector(tt.cluster)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Geometry.ClusterToSector() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("Geometry.ClusterToSector() = %v, want %v", got, tt.want)
			}
		})
	}

	// Strictly monotonic with a distance of one cluster.
	previous, _ := g.ClusterToSector(2)
	for c := uint32(3); c < 1000; c++ {
		sector, err := g.ClusterToSector(c)
		if err != nil {
			t.Fatalf("Geometry.ClusterToSector(%d) error = %v", c, err)
		}
		if sector-previous != uint64(g.SectorsPerCluster) {
			t.Fatalf("Geometry.ClusterToSector(%d) = %v follows %v", c, sector, previous)
		}
		previous = sector
	}
}

func TestGeometry_ClusterLastSector(t *testing.T) {
	g, err := ParseGeometry(bootSector(fixture.ForensicGeometry()), false)
	if err != nil {
		t.Fatalf("ParseGeometry() error = %v", err)
	}

	got, err := g.ClusterLastSector(7)
	if err != nil || got != 16395 {
		t.Errorf("Geometry.ClusterLastSector() = %v, %v, want 16395", got, err)
	}
}
