package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"rpk/internal/ports"
	"rpk/internal/shared"
	"rpk/internal/types"
)

const nodeHeader = "Rpk-Node"
const defaultTransportTimeout = 30 * time.Second

// HTTPTransportAdapter talks to the remote package authority over the
// current JSON protocol: every response body is a JSON document, and
// download payloads arrive in a {"data": <base64 ciphertext>} envelope.
// The legacy raw-byte-stream download protocol is not supported.
type HTTPTransportAdapter struct {
	BaseURL string
	Node    string
	Client  *http.Client
}

func NewHTTPTransportAdapter(settings types.Settings) HTTPTransportAdapter {
	node, _ := os.Hostname()
	return HTTPTransportAdapter{
		BaseURL: fmt.Sprintf("http://%s:%d", settings.Host, settings.Port),
		Node:    node,
		Client:  &http.Client{Timeout: defaultTransportTimeout},
	}
}

// infoResponse is the wire shape of info and watch answers. The date
// is parsed leniently because the server emits ISO-8601 without a
// timezone suffix.
type infoResponse struct {
	Version string `json:"version"`
	Date    string `json:"date"`
}

type downloadEnvelope struct {
	Data []byte `json:"data"`
}

func (a HTTPTransportAdapter) Info(ctx context.Context, desc types.Descriptor) (types.RemoteInfo, error) {
	return a.version(ctx, "info", desc)
}

func (a HTTPTransportAdapter) Watch(ctx context.Context, desc types.Descriptor) (types.RemoteInfo, error) {
	return a.version(ctx, "watch", desc)
}

func (a HTTPTransportAdapter) Download(ctx context.Context, desc types.Descriptor) ([]byte, error) {
	body, err := a.get(ctx, "download", desc)
	if err != nil {
		return nil, err
	}
	var envelope downloadEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeUnavailable).
			WithMsg("malformed download envelope").
			WithCause(err)
	}
	return envelope.Data, nil
}

func (a HTTPTransportAdapter) version(ctx context.Context, command string, desc types.Descriptor) (types.RemoteInfo, error) {
	body, err := a.get(ctx, command, desc)
	if err != nil {
		return types.RemoteInfo{}, err
	}
	var decoded infoResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return types.RemoteInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeUnavailable).
			WithMsg("malformed " + command + " response").
			WithCause(err)
	}
	return types.RemoteInfo{
		Version: decoded.Version,
		Date:    parseTimeFlexible(decoded.Date),
	}, nil
}

func (a HTTPTransportAdapter) get(ctx context.Context, command string, desc types.Descriptor) ([]byte, error) {
	url := fmt.Sprintf("%s/%s/%s/%s", a.BaseURL, command, desc.Kind, desc.Name)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to build request").
			WithCause(err)
	}
	if a.Node != "" {
		request.Header.Set(nodeHeader, a.Node)
	}
	response, err := a.Client.Do(request)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeUnavailable).
			WithMsg("server unreachable").
			WithCause(err)
	}
	defer response.Body.Close()
	if response.StatusCode == http.StatusNotFound {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no such package: " + desc.Name)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeUnavailable).
			WithMsg("unexpected server response").
			WithCause(shared.HTTPStatusError(response.StatusCode, url))
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeUnavailable).
			WithMsg("failed to read response body").
			WithCause(err)
	}
	return body, nil
}

var _ ports.TransportPort = HTTPTransportAdapter{}
