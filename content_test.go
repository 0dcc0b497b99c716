package fatscan

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/aligator/fatscan/fixture"
	"github.com/golang/mock/gomock"
)

// contentTestsError is returned by the mocked cluster source.
var contentTestsError = errors.New("a super error")

func Test_extractContent(t *testing.T) {
	type mock struct {
		data         []byte
		dataErr      error
		allocated    bool
		allocatedErr error
	}
	type args struct {
		cluster  uint32
		fileSize uint32
	}
	tests := []struct {
		name               string
		mockData           mock
		args               args
		wantContent        Bytes
		wantSlack          Bytes
		wantSlackAvailable bool
		wantErr            error
	}{
		{
			name: "slack behind a short file",
			mockData: mock{
				data:      append([]byte("hello"), bytes.Repeat([]byte{'x'}, 50)...),
				allocated: true,
			},
			args:               args{cluster: 5, fileSize: 5},
			wantContent:        Bytes("hello"),
			wantSlack:          Bytes(bytes.Repeat([]byte{'x'}, 32)),
			wantSlackAvailable: true,
		},
		{
			name: "content is limited",
			mockData: mock{
				data:      bytes.Repeat([]byte{'a'}, 512),
				allocated: true,
			},
			args:               args{cluster: 5, fileSize: 300},
			wantContent:        Bytes(bytes.Repeat([]byte{'a'}, 128)),
			wantSlack:          Bytes(bytes.Repeat([]byte{'a'}, 32)),
			wantSlackAvailable: true,
		},
		{
			name: "slack ends with the data",
			mockData: mock{
				data:      bytes.Repeat([]byte{'a'}, 512),
				allocated: true,
			},
			args:               args{cluster: 5, fileSize: 500},
			wantContent:        Bytes(bytes.Repeat([]byte{'a'}, 128)),
			wantSlack:          Bytes(bytes.Repeat([]byte{'a'}, 12)),
			wantSlackAvailable: true,
		},
		{
			name: "file fills the whole chain",
			mockData: mock{
				data:      bytes.Repeat([]byte{'a'}, 512),
				allocated: true,
			},
			args:               args{cluster: 5, fileSize: 512},
			wantContent:        Bytes(bytes.Repeat([]byte{'a'}, 128)),
			wantSlack:          Bytes{},
			wantSlackAvailable: true,
		},
		{
			name: "file size exceeds the chain",
			mockData: mock{
				data:      []byte("short"),
				allocated: true,
			},
			args:               args{cluster: 5, fileSize: 5000},
			wantContent:        Bytes("short"),
			wantSlack:          Bytes{},
			wantSlackAvailable: true,
		},
		{
			name: "empty file",
			mockData: mock{
				data:      []byte("leftover"),
				allocated: true,
			},
			args:               args{cluster: 5, fileSize: 0},
			wantContent:        Bytes{},
			wantSlack:          Bytes("leftover"),
			wantSlackAvailable: true,
		},
		{
			name: "unallocated cluster has no slack",
			mockData: mock{
				data:      []byte("remnants of something"),
				allocated: false,
			},
			args:        args{cluster: 8, fileSize: 9},
			wantContent: Bytes("remnants "),
		},
		{
			name:     "read error",
			mockData: mock{dataErr: contentTestsError},
			args:     args{cluster: 5, fileSize: 9},
			wantErr:  contentTestsError,
		},
		{
			name:     "FAT error",
			mockData: mock{data: []byte("data"), allocatedErr: contentTestsError},
			args:     args{cluster: 5, fileSize: 9},
			wantErr:  contentTestsError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCtrl := gomock.NewController(t)
			mockSource := NewMockclusterSource(mockCtrl)
			mockSource.EXPECT().
				RetrieveData(tt.args.cluster, true).
				Return(tt.mockData.data, tt.mockData.dataErr)
			mockSource.EXPECT().
				Allocated(tt.args.cluster).
				MaxTimes(1).
				Return(tt.mockData.allocated, tt.mockData.allocatedErr)

			gotContent, gotSlack, gotSlackAvailable, err := extractContent(mockSource, tt.args.cluster, tt.args.fileSize)

			mockCtrl.Finish()

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("extractContent() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(gotContent, tt.wantContent) {
				t.Errorf("extractContent() content = %v, want %v", gotContent, tt.wantContent)
			}
			if !reflect.DeepEqual(gotSlack, tt.wantSlack) {
				t.Errorf("extractContent() slack = %v, want %v", gotSlack, tt.wantSlack)
			}
			if gotSlackAvailable != tt.wantSlackAvailable {
				t.Errorf("extractContent() slackAvailable = %v, want %v", gotSlackAvailable, tt.wantSlackAvailable)
			}
		})
	}
}

func Test_clip(t *testing.T) {
	data := []byte("0123456789")
	tests := []struct {
		name     string
		from, to uint64
		want     []byte
	}{
		{name: "inside", from: 2, to: 5, want: []byte("234")},
		{name: "end is capped", from: 8, to: 20, want: []byte("89")},
		{name: "start behind the data", from: 12, to: 20, want: []byte{}},
		{name: "empty range", from: 3, to: 3, want: []byte{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clip(data, tt.from, tt.to)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("clip() = %v, want %v", got, tt.want)
			}
		})
	}

	got := clip(data, 0, 3)
	got[0] = 'x'
	if data[0] != '0' {
		t.Errorf("clip() does not copy")
	}
}

func TestImage_Content(t *testing.T) {
	img := openTestImage(t, fixture.Sample())

	tests := []struct {
		name               string
		cluster            uint32
		fileSize           uint32
		wantContent        Bytes
		wantSlack          Bytes
		wantSlackAvailable bool
	}{
		{
			name:               "ascii file",
			cluster:            fixture.ASCIICluster,
			fileSize:           uint32(len(fixture.ASCIIText)),
			wantContent:        Bytes(fixture.ASCIIText),
			wantSlack:          make(Bytes, 32),
			wantSlackAvailable: true,
		},
		{
			name:               "hidden slack",
			cluster:            fixture.SlackCluster,
			fileSize:           uint32(len(fixture.SlackText)),
			wantContent:        Bytes(fixture.SlackText),
			wantSlack:          append(Bytes(fixture.HiddenSlack), make(Bytes, 32-len(fixture.HiddenSlack))...),
			wantSlackAvailable: true,
		},
		{
			name:        "deleted file",
			cluster:     fixture.DeletedCluster,
			fileSize:    uint32(len(fixture.DeletedText)),
			wantContent: Bytes(fixture.DeletedText),
		},
		{
			name:               "fragmented file",
			cluster:            fixture.FragmentCluster,
			fileSize:           fixture.FragmentSize,
			wantContent:        Bytes(fixture.FragmentData()[:128]),
			wantSlack:          make(Bytes, 32),
			wantSlackAvailable: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotContent, gotSlack, gotSlackAvailable, err := img.Content(tt.cluster, tt.fileSize)
			if err != nil {
				t.Fatalf("Image.Content() error = %v", err)
			}
			if !reflect.DeepEqual(gotContent, tt.wantContent) {
				t.Errorf("Image.Content() content = %v, want %v", gotContent, tt.wantContent)
			}
			if !reflect.DeepEqual(gotSlack, tt.wantSlack) {
				t.Errorf("Image.Content() slack = %v, want %v", gotSlack, tt.wantSlack)
			}
			if gotSlackAvailable != tt.wantSlackAvailable {
				t.Errorf("Image.Content() slackAvailable = %v, want %v", gotSlackAvailable, tt.wantSlackAvailable)
			}
		})
	}
}
