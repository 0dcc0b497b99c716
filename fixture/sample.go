package fixture

import (
	"bytes"
	"time"
)

// Content of the sample image.
const (
	SampleLabel = "FORENSICS"

	SystemDirName = "System Volume Information"
	SettingsName  = "WPSettings.dat"

	ASCIIText   = "The quick brown fox jumps over the dog\n"
	SlackText   = "Nothing to see in this file, move on"
	HiddenSlack = "The butler did it!"
	DeletedText = "This file was deleted long ago.\r\n"
	SettingsRaw = "\x0c\x00\x00\x00\x8a\x91\x2f\x4b\x01\x00\x00\x00"

	FragmentSize = 1500
)

// Clusters used by the sample image.
const (
	RootCluster     = 2
	SystemCluster   = 3
	SettingsCluster = 4
	SlackCluster    = 5
	ASCIICluster    = 7
	DeletedCluster  = 8
	FragmentCluster = 9
)

// FragmentChain is the chain of FRAG.BIN. Cluster 10 in between is free.
var FragmentChain = []uint32{9, 11, 12}

// SampleTime is the write time of all records of the sample image.
var SampleTime = time.Date(2021, 3, 4, 5, 6, 8, 0, time.UTC)

// Empty creates an image with nothing but a volume label in the root directory.
func Empty(g Geometry) *Builder {
	return NewBuilder(g).Directory(g.RootCluster, Label(g.VolumeLabel))
}

// Sample creates an image using ForensicGeometry with the following root directory:
//
//	0    volume label FORENSICS
//	1-3  "System Volume Information", a directory at cluster 3
//	4    ASCII.TXT at cluster 7
//	5    SLACK.TXT at cluster 5, with HiddenSlack in its slack
//	6    deleted _SCII.TXT pointing to the free cluster 8
//	7-9  "Fragmented.bin", the chain 9, 11, 12
//	10-  unused records
//
// The system directory contains ".", "..", and WPSettings.dat at cluster 4 in
// records 2-4.
func Sample() *Builder {
	b := NewBuilder(ForensicGeometry())

	root := Concat(
		[]Record{Label(SampleLabel)},
		WithLongName(SystemDirName, Short("SYSTEM~1", AttrHidden|AttrSystem|AttrDirectory, SystemCluster, 0).Written(SampleTime)),
		[]Record{
			Short("ASCII.TXT", AttrArchive, ASCIICluster, uint32(len(ASCIIText))).Written(SampleTime),
			Short("SLACK.TXT", AttrArchive, SlackCluster, uint32(len(SlackText))).Written(SampleTime),
			Short("ASCII.TXT", AttrArchive, DeletedCluster, uint32(len(DeletedText))).Written(SampleTime).Deleted(),
		},
		WithLongName("Fragmented.bin", Short("FRAGME~1.BIN", AttrArchive, FragmentCluster, FragmentSize).Written(SampleTime)),
	)
	b.Directory(RootCluster, root...)

	system := Concat(
		Dot(SystemCluster, 0),
		WithLongName(SettingsName, Short("WPSETT~1.DAT", AttrArchive, SettingsCluster, uint32(len(SettingsRaw))).Written(SampleTime)),
	)
	b.Directory(SystemCluster, system...)

	b.WriteChain([]byte(SettingsRaw), SettingsCluster)
	b.WriteChain([]byte(SlackText+HiddenSlack), SlackCluster)
	b.WriteChain([]byte(ASCIIText), ASCIICluster)

	// The chain of the deleted file is gone, but its data is still there.
	b.Write(DeletedCluster, []byte(DeletedText))

	b.WriteChain(FragmentData(), FragmentChain...)

	return b
}

// FragmentData is the content of Fragmented.bin.
func FragmentData() []byte {
	return bytes.Repeat([]byte("0123456789"), FragmentSize/10)
}
