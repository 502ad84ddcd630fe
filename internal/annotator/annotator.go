// Package annotator labels newly uploaded wallpapers with Cloud Vision.
package annotator

import (
	"context"
	"io"
	"net/http"
	"sort"
	"strings"

	"wallpapers/internal/events"
	"wallpapers/internal/tags"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/go-faster/errors"
	"github.com/googleapis/gax-go/v2"
	"go.uber.org/zap"
)

const (
	maxLabels = 50
	maxColors = 4
	// maxImageBytes bounds the download; Vision rejects larger inline images.
	maxImageBytes = 20 << 20
)

// ImageAnnotator is the part of the Vision client the annotator uses.
type ImageAnnotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
}

type Annotator struct {
	vision     ImageAnnotator
	tags       tags.Writer
	httpClient *http.Client
	logger     *zap.Logger
}

func New(vision ImageAnnotator, store tags.Writer, httpClient *http.Client, logger *zap.Logger) *Annotator {
	return &Annotator{
		vision:     vision,
		tags:       store,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Handle annotates the uploaded wallpaper and stores its tags.
func (a *Annotator) Handle(ctx context.Context, u events.Uploaded) error {
	anno, err := a.annotateImage(ctx, u.URL)
	if err != nil {
		return err
	}

	t := FromAnnotation(u.ID, anno)
	if err := a.tags.Upsert(ctx, t); err != nil {
		return err
	}

	a.logger.Info("wallpaper annotated",
		zap.String("id", u.ID),
		zap.Int("tags", len(t.Labels)),
		zap.Strings("colors", t.Colors),
	)
	return nil
}

// FromAnnotation builds the stored tags from a Vision response.
func FromAnnotation(id string, anno *visionpb.AnnotateImageResponse) tags.Tags {
	t := tags.Tags{ID: id, Labels: make(map[string]float32)}

	for _, v := range anno.GetLabelAnnotations() {
		t.Labels[strings.ToLower(v.GetDescription())] = v.GetScore()
	}

	type tag struct {
		name  string
		score float32
	}
	ordered := make([]tag, 0, len(t.Labels))
	for k, v := range t.Labels {
		ordered = append(ordered, tag{name: k, score: v})
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].score == ordered[j].score {
			return ordered[i].name < ordered[j].name
		}
		return ordered[i].score > ordered[j].score
	})

	t.Ordered = make([]string, 0, len(ordered))
	for _, v := range ordered {
		t.Ordered = append(t.Ordered, strings.ReplaceAll(v.name, " ", "-"))
	}

	if props := anno.GetImagePropertiesAnnotation(); props != nil {
		colors := props.GetDominantColors().GetColors()
		for i := 0; i < min(maxColors, len(colors)); i++ {
			c := colors[i].GetColor()
			rgb := RGB{int(c.GetRed()), int(c.GetGreen()), int(c.GetBlue())}
			t.Colors = append(t.Colors, rgb.ToHex())
		}
	}

	return t
}

func (a *Annotator) annotateImage(ctx context.Context, url string) (*visionpb.AnnotateImageResponse, error) {
	// Drive thumbnails are not reachable by Vision, so the bytes are sent inline.
	imgBytes, err := a.download(ctx, url)
	if err != nil {
		return nil, err
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{
					Content: imgBytes,
				},
				Features: []*visionpb.Feature{
					{
						Type:       visionpb.Feature_LABEL_DETECTION,
						MaxResults: maxLabels,
					},
					{
						Type:       visionpb.Feature_IMAGE_PROPERTIES,
						MaxResults: maxColors,
					},
				},
			},
		},
	}
	images, err := a.vision.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "vision API call failed")
	}

	responses := images.GetResponses()
	if len(responses) == 0 {
		return nil, errors.Errorf("vision API returned no responses for %s", url)
	}

	resp := responses[0]
	if resp.GetError() != nil {
		return nil, errors.Errorf("vision API error for %s: %s", url, resp.GetError().GetMessage())
	}

	return resp, nil
}

func (a *Annotator) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create image request")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "download image from %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("download image from %s: status %d", url, resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, errors.Wrapf(err, "read image from %s", url)
	}
	return b, nil
}
