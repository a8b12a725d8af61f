package rpc

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/tracgate/internal/shared/errors"
	"github.com/orris-inc/tracgate/internal/shared/logger"
)

// canned XML-RPC responses served by the stub transport
const (
	intResponse = `<?xml version="1.0"?>
<methodResponse>
  <params>
    <param><value><int>42</int></value></param>
  </params>
</methodResponse>`

	faultResponse = `<?xml version="1.0"?>
<methodResponse>
  <fault>
    <value>
      <struct>
        <member><name>faultCode</name><value><int>2</int></value></member>
        <member><name>faultString</name><value><string>'Ticket 7 does not exist.' while executing ticket.get().</string></value></member>
      </struct>
    </value>
  </fault>
</methodResponse>`
)

type stubTransport struct {
	body string
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"text/xml"}},
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Request:    req,
	}, nil
}

func newTestCaller(t *testing.T, body string) *XMLRPCCaller {
	t.Helper()
	caller, err := NewXMLRPCCaller("http://duchess:pw@company.com/trac/login/xmlrpc",
		logger.NewNop(), WithTransport(&stubTransport{body: body}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = caller.Close() })
	return caller
}

func TestCallDecodesResult(t *testing.T) {
	caller := newTestCaller(t, intResponse)

	var id int
	err := caller.Call(context.Background(), "ticket.create",
		[]any{"s", "d", map[string]string{}, false}, &id)
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}

func TestCallMapsFaults(t *testing.T) {
	caller := newTestCaller(t, faultResponse)

	var reply []any
	err := caller.Call(context.Background(), "ticket.get", []any{7}, &reply)
	require.Error(t, err)

	require.True(t, errors.IsRemoteFault(err))
	assert.Equal(t, 2, errors.FaultCode(err))
	assert.Contains(t, errors.GetAppError(err).Message, "Ticket 7 does not exist.")
}
