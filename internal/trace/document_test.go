package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, doc *Document) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))
	return buf.String()
}

func TestParseKeepsTopLevelFields(t *testing.T) {
	doc, err := Parse([]byte(`{"traceEvents":[],"displayTimeUnit":"ns","otherData":{"version":"1.0"}}`))
	require.NoError(t, err)

	assert.Empty(t, doc.Events)
	unit, ok := doc.Field("displayTimeUnit")
	require.True(t, ok)
	assert.JSONEq(t, `"ns"`, string(unit))

	_, ok = doc.Field(FieldTraceEvents)
	assert.False(t, ok, "traceEvents is held in Events, not fields")

	assert.Equal(t, `{"displayTimeUnit":"ns","otherData":{"version":"1.0"},"traceEvents":[]}`+"\n", encode(t, doc))
}

func TestParseProducerOutput(t *testing.T) {
	// Shape written by the profiler, including its trailing empty event.
	input := `{"displayTimeUnit": "ns", "traceEvents": [
{"tid":"7f3a","pid":4242,"ts":12.345,"name":"start request","ph":"B","args":{"b_meta":"4d000000000000"}},
{"tid":"7f3a","pid":4242,"ts":13.000,"name":"flow","ph":"s","id":329853488332923,"args":{"flow_id":"4d00000000007b"}},
{"pid": 4242,"ts":14.500,"name":"counter","ph":"C","args":{"val":17}},
{}]}`

	doc, err := Parse([]byte(input))
	require.NoError(t, err)
	require.Len(t, doc.Events, 4)

	first := doc.Events[0]
	assert.True(t, first.IsObject())
	args, ok := first.Args()
	require.True(t, ok)
	assert.JSONEq(t, `"4d000000000000"`, string(args["b_meta"]))

	last := doc.Events[3]
	assert.True(t, last.IsObject())
	assert.Equal(t, 0, last.Len())
	_, ok = last.Args()
	assert.False(t, ok)

	expected := `{"displayTimeUnit":"ns","traceEvents":[
{"args":{"b_meta":"4d000000000000"},"name":"start request","ph":"B","pid":4242,"tid":"7f3a","ts":12.345},
{"args":{"flow_id":"4d00000000007b"},"id":329853488332923,"name":"flow","ph":"s","pid":4242,"tid":"7f3a","ts":13.000},
{"args":{"val":17},"name":"counter","ph":"C","pid":4242,"ts":14.500},
{}
]}
`
	assert.Equal(t, expected, encode(t, doc))
}

func TestParseLenient(t *testing.T) {
	input := `{
	// captured by hand
	"traceEvents": [
		{"name": "a", "ph": "i", /* inline */ "pid": 1,},
	],
}`
	doc, err := Parse([]byte(input))
	require.NoError(t, err)
	require.Len(t, doc.Events, 1)
	assert.Equal(t, "{\"traceEvents\":[\n{\"name\":\"a\",\"ph\":\"i\",\"pid\":1}\n]}\n", encode(t, doc))
}

func TestParseOpaqueEvents(t *testing.T) {
	doc, err := Parse([]byte(`{"traceEvents":[null, 7, [1, 2], "x"]}`))
	require.NoError(t, err)
	require.Len(t, doc.Events, 4)

	for _, ev := range doc.Events {
		require.NotNil(t, ev)
		assert.False(t, ev.IsObject())
		_, ok := ev.Args()
		assert.False(t, ok)
		assert.Error(t, ev.Set("pid", 1))
		ev.SetPID(3) // no-op
	}

	assert.Equal(t, "{\"traceEvents\":[\nnull,\n7,\n[1,2],\n\"x\"\n]}\n", encode(t, doc))
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not json", "hello"},
		{"truncated", `{"traceEvents":[{"name":"a"`},
		{"top level array", `[{"name":"a"}]`},
		{"missing traceEvents", `{"displayTimeUnit":"ns"}`},
		{"traceEvents object", `{"traceEvents":{}}`},
		{"traceEvents null", `{"traceEvents":null}`},
		{"traceEvents string", `{"traceEvents":"x"}`},
		{"trailing garbage", `{"traceEvents":[]} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedDocument), "got %v", err)
		})
	}
}

func TestEventSetPID(t *testing.T) {
	doc, err := Parse([]byte(`{"traceEvents":[{"pid":4242,"name":"x"},{"name":"y"}]}`))
	require.NoError(t, err)

	doc.Events[0].SetPID(2)
	doc.Events[1].SetPID(123)

	pid, ok := doc.Events[0].Get(FieldPID)
	require.True(t, ok)
	assert.Equal(t, "2", string(pid))

	assert.Equal(t, "{\"traceEvents\":[\n{\"name\":\"x\",\"pid\":2},\n{\"name\":\"y\",\"pid\":123}\n]}\n", encode(t, doc))
}

func TestArgsNotObject(t *testing.T) {
	for _, args := range []string{`null`, `"b_meta"`, `[]`, `3`} {
		doc, err := Parse([]byte(`{"traceEvents":[{"args":` + args + `}]}`))
		require.NoError(t, err)

		assert.True(t, doc.Events[0].Has(FieldArgs))
		_, ok := doc.Events[0].Args()
		assert.False(t, ok, "args %s", args)
	}
}

func TestEncodeDoesNotEscapeHTML(t *testing.T) {
	doc, err := Parse([]byte(`{"traceEvents":[{"name":"operator<<(a&b)>"}]}`))
	require.NoError(t, err)

	out := encode(t, doc)
	assert.Contains(t, out, `"operator<<(a&b)>"`)
	assert.NotContains(t, out, `\u003c`)
	assert.NotContains(t, out, `\u0026`)
}

func TestEncodePreservesValues(t *testing.T) {
	input := `{"traceEvents":[{"ts":1.50,"big":18446744073709551615,"s":"é\n","nested":{"z":1,"a":[true,null]}}]}`
	doc, err := Parse([]byte(input))
	require.NoError(t, err)

	out := encode(t, doc)
	assert.JSONEq(t, input, out)
	assert.Contains(t, out, `"ts":1.50`)
	assert.Contains(t, out, `18446744073709551615`)
	// Nested objects keep their original key order.
	assert.Contains(t, out, `"nested":{"z":1,"a":[true,null]}`)
}

func TestNewEvent(t *testing.T) {
	ev, err := NewEvent(map[string]any{
		FieldName:  "process_name",
		FieldPhase: PhaseMetadata,
		FieldPID:   1,
		FieldArgs:  map[string]string{"name": "server"},
	})
	require.NoError(t, err)

	out, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Equal(t, `{"args":{"name":"server"},"name":"process_name","ph":"M","pid":1}`, string(out))
}

func TestDocumentAppend(t *testing.T) {
	doc, err := Parse([]byte(`{"traceEvents":[]}`))
	require.NoError(t, err)

	ev, err := NewEvent(map[string]any{FieldName: "a"})
	require.NoError(t, err)
	doc.Append(ev, ev)
	assert.Len(t, doc.Events, 2)
}
