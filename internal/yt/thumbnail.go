package yt

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// ThumbnailKind tags which JSON shape a thumbnail field arrived in.
type ThumbnailKind int

const (
	ThumbnailNone ThumbnailKind = iota
	ThumbnailString
	ThumbnailStringList
	ThumbnailObjectList
	ThumbnailObject
)

type ThumbnailImage struct {
	URL    string
	Width  int
	Height int
}

// Thumbnails is the parsed form of a thumbnail field. Search helpers return
// a plain string, a list of strings or a list of {url,width,height} objects.
type Thumbnails struct {
	Kind   ThumbnailKind
	Images []ThumbnailImage
}

func (t *Thumbnails) UnmarshalJSON(data []byte) error {
	parsed, err := ParseThumbnails(data)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseThumbnails decodes any of the supported shapes. Unsupported shapes
// (numbers, bools, null) yield ThumbnailNone without error.
func ParseThumbnails(data []byte) (Thumbnails, error) {
	d := jx.DecodeBytes(data)
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return Thumbnails{}, errors.Wrap(err, "thumbnail string")
		}
		if s == "" {
			return Thumbnails{}, nil
		}
		return Thumbnails{Kind: ThumbnailString, Images: []ThumbnailImage{{URL: s}}}, nil
	case jx.Object:
		img, err := decodeImage(d)
		if err != nil {
			return Thumbnails{}, err
		}
		if img.URL == "" {
			return Thumbnails{}, nil
		}
		return Thumbnails{Kind: ThumbnailObject, Images: []ThumbnailImage{img}}, nil
	case jx.Array:
		return decodeList(d)
	default:
		return Thumbnails{}, nil
	}
}

func decodeList(d *jx.Decoder) (Thumbnails, error) {
	var out Thumbnails
	err := d.Arr(func(d *jx.Decoder) error {
		switch d.Next() {
		case jx.String:
			s, err := d.Str()
			if err != nil {
				return err
			}
			if s != "" {
				out.Images = append(out.Images, ThumbnailImage{URL: s})
				if out.Kind == ThumbnailNone {
					out.Kind = ThumbnailStringList
				}
			}
			return nil
		case jx.Object:
			img, err := decodeImage(d)
			if err != nil {
				return err
			}
			if img.URL != "" {
				out.Images = append(out.Images, img)
				if out.Kind == ThumbnailNone {
					out.Kind = ThumbnailObjectList
				}
			}
			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return Thumbnails{}, errors.Wrap(err, "thumbnail list")
	}
	return out, nil
}

func decodeImage(d *jx.Decoder) (ThumbnailImage, error) {
	var img ThumbnailImage
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "url":
			if d.Next() != jx.String {
				return d.Skip()
			}
			s, err := d.Str()
			img.URL = s
			return err
		case "width":
			return decodeSize(d, &img.Width)
		case "height":
			return decodeSize(d, &img.Height)
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return ThumbnailImage{}, errors.Wrap(err, "thumbnail object")
	}
	return img, nil
}

func decodeSize(d *jx.Decoder, dst *int) error {
	if d.Next() != jx.Number {
		return d.Skip()
	}
	n, err := d.Int()
	*dst = n
	return err
}

// Best returns the largest image by area, or the last one when sizes are
// unknown (search helpers list thumbnails smallest first).
func (t Thumbnails) Best() string {
	if len(t.Images) == 0 {
		return ""
	}
	best := t.Images[len(t.Images)-1]
	for _, img := range t.Images {
		if img.Width*img.Height > best.Width*best.Height {
			best = img
		}
	}
	return best.URL
}
