package models

// ImageKind distinguishes full-size screenshot images from thumbnails.
type ImageKind string

const (
	ImageKindSource    ImageKind = "source"
	ImageKindThumbnail ImageKind = "thumbnail"
)

// ImageKindFromString parses an image kind string; anything unrecognized is
// treated as a source image, matching how permissive catalog consumers
// behave.
func ImageKindFromString(s string) ImageKind {
	if ImageKind(s) == ImageKindThumbnail {
		return ImageKindThumbnail
	}
	return ImageKindSource
}

// Image is one rendition of a screenshot.
type Image struct {
	Kind   ImageKind `json:"kind"`
	URL    string    `json:"url" validate:"required"`
	Width  int       `json:"width,omitempty"`
	Height int       `json:"height,omitempty"`
}

// Screenshot is a captioned set of image renditions. The first screenshot
// marked as default is the one catalog frontends show prominently.
type Screenshot struct {
	Default bool          `json:"default,omitempty"`
	Caption LocalizedText `json:"caption,omitempty"`
	Images  []Image       `json:"images,omitempty"`
}

// Clone returns an independent copy.
func (s Screenshot) Clone() Screenshot {
	out := s
	out.Caption = s.Caption.Clone()
	out.Images = append([]Image(nil), s.Images...)
	return out
}
