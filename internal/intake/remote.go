// internal/intake/remote.go
package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mwiater/ecoaudit/internal/audit"
	"github.com/mwiater/ecoaudit/internal/logging"
)

// defaultFailureMessage is shown when the service gives no usable reason.
const defaultFailureMessage = "Audit failed"

var remoteExtensions = []string{".csv", ".pkl"}

// Remote submits a dataset or model file to the measurement service. It
// sends exactly one request: no retries and no client-side timeout.
type Remote struct {
	endpoint string
	client   *http.Client
}

// NewRemote constructs a Remote for endpoint. A nil client gets a default
// client without a timeout.
func NewRemote(endpoint string, client *http.Client) *Remote {
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{Proxy: http.ProxyFromEnvironment, ForceAttemptHTTP2: false},
		}
	}
	return &Remote{endpoint: endpoint, client: client}
}

func (r *Remote) Name() string { return "remote" }

func (r *Remote) Extensions() []string { return remoteExtensions }

func (r *Remote) Accepts(name string) bool { return hasSuffix(name, remoteExtensions) }

// Endpoint returns the audit URL requests are sent to.
func (r *Remote) Endpoint() string { return r.endpoint }

// Acquire posts the file and epoch count as multipart/form-data and decodes
// the service's answer.
func (r *Remote) Acquire(ctx context.Context, req Request) (*audit.Result, error) {
	up := req.Upload
	if !r.Accepts(up.Name) {
		return nil, unsupported(remoteExtensions)
	}
	epochs := CoerceEpochs(strconv.Itoa(req.Epochs))

	file, err := up.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", up.Name, err)
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		defer file.Close()
		pw.CloseWithError(writeForm(form, up.Name, file, epochs))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, pr)
	if err != nil {
		_ = pr.Close()
		return nil, err
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")

	logging.LogRequest("ecoaudit->service", r.endpoint, up.Name, map[string]any{"epochs": epochs, "size": up.Size})
	resp, err := r.client.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("audit cancelled: %w", ctxErr)
		}
		return nil, r.transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, r.transportError(err)
	}
	logging.LogRequest("service->ecoaudit", r.endpoint, up.Name, body)

	if !statusOK(resp.StatusCode) {
		return nil, &Error{
			Kind:    KindApplication,
			Title:   "Error",
			Message: serviceMessage(body),
			Err:     fmt.Errorf("%w: %s", ErrApplication, resp.Status),
		}
	}

	res, err := audit.Decode(body)
	if err != nil {
		return nil, &Error{
			Kind:    KindApplication,
			Title:   "Error",
			Message: "Audit service returned an unreadable result: " + err.Error(),
			Err:     fmt.Errorf("%w: %w", ErrApplication, err),
		}
	}
	return res, nil
}

func writeForm(form *multipart.Writer, name string, file io.Reader, epochs int) error {
	part, err := form.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := form.WriteField("epochs", strconv.Itoa(epochs)); err != nil {
		return err
	}
	return form.Close()
}

func (r *Remote) transportError(err error) *Error {
	host := r.endpoint
	if u, perr := url.Parse(r.endpoint); perr == nil && u.Host != "" {
		host = u.Host
	}
	return &Error{
		Kind:    KindTransport,
		Title:   "Error",
		Message: fmt.Sprintf("Cannot connect to backend. Make sure the audit service is running on %s", host),
		Err:     fmt.Errorf("%w: %w", ErrTransport, err),
	}
}

// serviceMessage extracts {"error": "..."} from a failure body.
func serviceMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return defaultFailureMessage
	}
	if msg := strings.TrimSpace(payload.Error); msg != "" {
		return msg
	}
	return defaultFailureMessage
}
