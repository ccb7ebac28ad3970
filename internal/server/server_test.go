package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

func TestNew(t *testing.T) {
	s := New(nil, nil)
	require.NotNil(t, s)
	assert.NotNil(t, s.log)
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{"string id", `{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`, "test-1", "tools/list"},
		{"number id", `{"jsonrpc":"2.0","id":42,"method":"ping"}`, float64(42), "ping"},
		{"null id", `{"jsonrpc":"2.0","id":null,"method":"initialize"}`, nil, "initialize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			require.NoError(t, json.Unmarshal([]byte(tt.json), &req))
			assert.Equal(t, tt.wantID, req.ID)
			assert.Equal(t, tt.wantMethod, req.Method)
			assert.Equal(t, "2.0", req.JSONRPC)
		})
	}
}

func TestMCPResponse_WithError(t *testing.T) {
	resp := MCPResponse{
		JSONRPC: "2.0",
		ID:      1,
		Error:   &MCPError{Code: CodeMethodNotFound, Message: "Method not found"},
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"result"`)

	var decoded MCPResponse
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.Error)
	assert.Equal(t, -32601, decoded.Error.Code)
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(testContext(t), &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})

	require.NotNil(t, resp)
	require.Nil(t, resp.Error)
	assert.Equal(t, 1, resp.ID)

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2024-11-05", result["protocolVersion"])

	info, ok := result["serverInfo"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, Name, info["name"])
	assert.Equal(t, Version, info["version"])
}

func TestHandleRequest_Ping(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(testContext(t), &MCPRequest{JSONRPC: "2.0", ID: "ping-1", Method: "ping"})

	require.NotNil(t, resp)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "ping-1", resp.ID)
}

func TestHandleRequest_Notifications(t *testing.T) {
	s := newTestServer(t)
	for _, method := range []string{"notifications/initialized", "notifications/cancelled"} {
		resp := s.handleRequest(testContext(t), &MCPRequest{JSONRPC: "2.0", Method: method})
		assert.Nil(t, resp, method)
	}
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(testContext(t), &MCPRequest{JSONRPC: "2.0", ID: 7, Method: "resources/list"})

	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "resources/list")
}

func TestServe_Session(t *testing.T) {
	s := newTestServer(t)
	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`this is not json`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"health","arguments":{}}}`,
		`{"jsonrpc":"2.0","id":4,"method":"nope"}`,
	}, "\n")
	var out bytes.Buffer

	require.NoError(t, s.Serve(testContext(t), strings.NewReader(in), &out))

	dec := json.NewDecoder(&out)
	var ids []float64
	var codes []int
	for dec.More() {
		var resp struct {
			ID    float64   `json:"id"`
			Error *MCPError `json:"error"`
		}
		require.NoError(t, dec.Decode(&resp))
		ids = append(ids, resp.ID)
		if resp.Error != nil {
			codes = append(codes, resp.Error.Code)
		}
	}
	assert.Equal(t, []float64{1, 2, 3, 4}, ids, "one response per request, none for notifications or garbage")
	assert.Equal(t, []int{CodeMethodNotFound}, codes)
}

func TestServe_CanceledContext(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := s.Serve(ctx, strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`+"\n"), &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, out.Len())
}

func TestServe_LineTooLongKeepsSession(t *testing.T) {
	s := newTestServer(t)
	s.svc.Config().Limits.MaxRequestBytes = 4096

	long := `{"jsonrpc":"2.0","id":1,"method":"ping","params":{"pad":"` + strings.Repeat("x", 70*1024) + `"}}`
	in := long + "\n" + `{"jsonrpc":"2.0","id":2,"method":"ping"}` + "\n"
	var out bytes.Buffer

	require.NoError(t, s.Serve(testContext(t), strings.NewReader(in), &out))

	dec := json.NewDecoder(&out)
	var first, second MCPResponse
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.False(t, dec.More())

	assert.Nil(t, first.ID)
	require.NotNil(t, first.Error)
	assert.Equal(t, CodeInvalidRequest, first.Error.Code)
	assert.Contains(t, first.Error.Data, "4096")

	assert.Equal(t, float64(2), second.ID)
	assert.Nil(t, second.Error)
}

func TestReadLine(t *testing.T) {
	r := bufio.NewReaderSize(strings.NewReader("short\n"+strings.Repeat("y", 100)+"\nlast"), 16)

	line, err := readLine(r, 32)
	require.NoError(t, err)
	assert.Equal(t, "short", string(line))

	_, err = readLine(r, 32)
	assert.ErrorIs(t, err, errLineTooLong)

	line, err = readLine(r, 32)
	require.NoError(t, err)
	assert.Equal(t, "last", string(line))

	_, err = readLine(r, 32)
	assert.ErrorIs(t, err, io.EOF)
}
