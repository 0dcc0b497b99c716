package fatscan

// Limits of the content and slack reported per file.
const (
	ContentLimit = 128
	SlackLimit   = 32
)

// clusterSource provides everything the directory parser needs from an image.
// It mainly exists to be able to mock the Image in tests.
// Generated mock using mockgen:
//
//	mockgen -source=content.go -destination=source_mock.go -package fatscan
type clusterSource interface {
	SectorsFor(cluster uint32) ([]uint64, error)
	RetrieveData(cluster uint32, fallback bool) ([]byte, error)
	Allocated(cluster uint32) (bool, error)
}

// Content returns the first bytes of a file starting at cluster and the slack behind its end.
// See extractContent for the details.
func (img *Image) Content(cluster uint32, fileSize uint32) (content Bytes, slack Bytes, slackAvailable bool, err error) {
	return extractContent(img, cluster, fileSize)
}

// extractContent reads the data of the cluster chain, falling back to the first sector of
// the cluster if it is unallocated.
//
// content is the first min(ContentLimit, fileSize) bytes of it. The slack starts at offset
// fileSize of the concatenated chain data, which is the first byte behind the logical content
// in the last cluster, and is at most SlackLimit bytes long. If the chain holds fewer bytes
// than fileSize, the slack is empty.
//
// For an unallocated cluster there is no reliable boundary between content and slack, so
// the slack is reported as not available.
func extractContent(src clusterSource, cluster uint32, fileSize uint32) (content Bytes, slack Bytes, slackAvailable bool, err error) {
	data, err := src.RetrieveData(cluster, true)
	if err != nil {
		return nil, nil, false, err
	}

	content = Bytes(clip(data, 0, min(uint64(ContentLimit), uint64(fileSize))))

	allocated, err := src.Allocated(cluster)
	if err != nil {
		return nil, nil, false, err
	}
	if !allocated {
		return content, nil, false, nil
	}

	slack = Bytes(clip(data, uint64(fileSize), uint64(fileSize)+SlackLimit))
	return content, slack, true, nil
}

// clip returns a copy of data[from:to], limited to the available bytes.
func clip(data []byte, from, to uint64) []byte {
	size := uint64(len(data))
	if to > size {
		to = size
	}
	if from > to {
		from = to
	}

	result := make([]byte, to-from)
	copy(result, data[from:to])
	return result
}
