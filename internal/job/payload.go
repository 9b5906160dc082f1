package job

import (
	"strings"

	"github.com/go-faster/errors"
)

type Format string

const (
	FormatMP3 Format = "mp3"
	FormatMP4 Format = "mp4"
)

// PayloadPrefix marks format buttons: ytapi/<video_id>/<mp3|mp4>.
const PayloadPrefix = "ytapi"

var ErrInvalidPayload = errors.New("invalid button data")

type Selection struct {
	VideoID string
	Format  Format
}

func (s Selection) Payload() string {
	return PayloadPrefix + "/" + s.VideoID + "/" + string(s.Format)
}

func ParseSelection(data string) (Selection, error) {
	parts := strings.Split(data, "/")
	if len(parts) != 3 || parts[0] != PayloadPrefix || parts[1] == "" {
		return Selection{}, errors.Wrapf(ErrInvalidPayload, "%q", data)
	}
	switch f := Format(parts[2]); f {
	case FormatMP3, FormatMP4:
		return Selection{VideoID: parts[1], Format: f}, nil
	default:
		return Selection{}, errors.Wrapf(ErrInvalidPayload, "unknown format %q", parts[2])
	}
}
