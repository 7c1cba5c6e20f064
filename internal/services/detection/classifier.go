package detection

import (
	"context"
	"fmt"
	"strings"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"
)

// HTTPClassifier calls the plant-health model server. Each kind is served
// at POST {baseURL}/classify/{kind} with the raw image as body.
type HTTPClassifier struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
}

func NewHTTPClassifier(baseURL string, timeout time.Duration) *HTTPClassifier {
	return &HTTPClassifier{
		client:  &fasthttp.Client{Name: "finca"},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

func (c *HTTPClassifier) Classify(ctx context.Context, kind string, img *Image) (*Prediction, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/classify/" + kind)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType(img.ContentType)
	req.SetBody(img.Data)

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	if err := c.client.DoTimeout(req, resp, timeout); err != nil {
		return nil, fmt.Errorf("failed to call classifier: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode(), resp.Body())
	}

	var p Prediction
	if err := json.Unmarshal(resp.Body(), &p); err != nil {
		return nil, fmt.Errorf("failed to decode classifier response: %w", err)
	}
	return &p, nil
}
