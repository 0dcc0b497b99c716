package fatscan

import (
	"encoding/json"
	"time"
)

// entryRecord is the flat serialized form of an Entry. Payload fields are
// only present for the kinds carrying them.
type entryRecord struct {
	Parent         string      `json:"parent" yaml:"parent"`
	DirCluster     uint32      `json:"dir_cluster" yaml:"dir_cluster"`
	EntryNum       int         `json:"entry_num" yaml:"entry_num"`
	DirSectors     []uint64    `json:"dir_sectors" yaml:"dir_sectors,flow"`
	EntryType      EntryType   `json:"entry_type" yaml:"entry_type"`
	Name           *string     `json:"name" yaml:"name"`
	LongName       string      `json:"long_name,omitempty" yaml:"long_name,omitempty"`
	Deleted        bool        `json:"deleted" yaml:"deleted"`
	ContentCluster *uint32     `json:"content_cluster,omitempty" yaml:"content_cluster,omitempty"`
	FileSize       *uint32     `json:"filesize,omitempty" yaml:"filesize,omitempty"`
	ContentSectors *[]uint64   `json:"content_sectors,omitempty" yaml:"content_sectors,omitempty,flow"`
	Content        *Bytes      `json:"content,omitempty" yaml:"content,omitempty"`
	Slack          *slackField `json:"slack,omitempty" yaml:"slack,omitempty"`
	Written        *time.Time  `json:"written,omitempty" yaml:"written,omitempty"`
}

func (e Entry) record() entryRecord {
	r := entryRecord{
		Parent:     e.Parent,
		DirCluster: e.DirCluster,
		EntryNum:   e.Index,
		DirSectors: e.DirSectors,
		EntryType:  e.Type,
		Name:       e.Name,
		LongName:   e.LongName,
		Deleted:    e.Deleted,
	}
	if r.DirSectors == nil {
		r.DirSectors = []uint64{}
	}

	if d := e.Directory; d != nil {
		r.ContentCluster = &d.ContentCluster
		r.Written = timestamp(d.Written)
	}

	if f := e.File; f != nil {
		sectors := f.ContentSectors
		if sectors == nil {
			sectors = []uint64{}
		}
		content := f.Content
		if content == nil {
			content = Bytes{}
		}

		r.FileSize = &f.FileSize
		r.ContentCluster = &f.ContentCluster
		r.ContentSectors = &sectors
		r.Content = &content
		r.Slack = &slackField{bytes: f.Slack, available: f.SlackAvailable}
		r.Written = timestamp(f.Written)
	}

	return r
}

func timestamp(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.record())
}

func (e Entry) MarshalYAML() (interface{}, error) {
	return e.record(), nil
}

func (b Bytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b Bytes) MarshalYAML() (interface{}, error) {
	return b.String(), nil
}

// slackField is null if no slack is available, which differs from empty slack.
type slackField struct {
	bytes     Bytes
	available bool
}

func (s slackField) MarshalJSON() ([]byte, error) {
	if !s.available {
		return []byte("null"), nil
	}
	return json.Marshal(s.bytes.String())
}

func (s slackField) MarshalYAML() (interface{}, error) {
	if !s.available {
		return nil, nil
	}
	return s.bytes.String(), nil
}
