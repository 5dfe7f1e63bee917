package sandwichjson_test

import (
	"bytes"
	"testing"

	"github.com/WelcomerTeam/Sandwich-Gateway/sandwichjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// maybe is a minimal omittable value. Missing is the zero value.
type maybe struct {
	set   bool
	value []byte
}

func (m maybe) IsOmitted() bool {
	return !m.set
}

func (m maybe) MarshalJSON() ([]byte, error) {
	return m.value, nil
}

func (m *maybe) UnmarshalJSON(b []byte) error {
	m.set = true
	m.value = append([]byte(nil), b...)

	return nil
}

type document struct {
	Name  string `json:"name"`
	Value maybe  `json:"value,omitempty"`
}

func TestOmittableFieldIsDroppedWhenOmitted(t *testing.T) {
	t.Parallel()

	encoded, err := sandwichjson.Marshal(document{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"a"}`, string(encoded))

	encoded, err = sandwichjson.Marshal(document{Name: "a", Value: maybe{set: true, value: []byte("null")}})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"a","value":null}`, string(encoded))
}

// strictList always encodes as an array.
type strictList []int

func (l strictList) MarshalJSON() ([]byte, error) {
	if len(l) == 0 {
		return []byte("[]"), nil
	}

	return sandwichjson.Marshal([]int(l))
}

func TestNilSliceMarshalerIsAsked(t *testing.T) {
	t.Parallel()

	encoded, err := sandwichjson.Marshal(struct {
		Items strictList `json:"items"`
	}{})
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, string(encoded))

	encoded, err = sandwichjson.Marshal(strictList(nil))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(encoded))

	encoded, err = sandwichjson.Marshal(strictList{1, 2})
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(encoded))
}

func TestOmittableReceivesNull(t *testing.T) {
	t.Parallel()

	var doc document

	require.NoError(t, sandwichjson.Unmarshal([]byte(`{"name":"a","value": null}`), &doc))
	assert.True(t, doc.Value.set)
	assert.Equal(t, "null", string(doc.Value.value))

	doc = document{}

	require.NoError(t, sandwichjson.Unmarshal([]byte(`{"name":"a"}`), &doc))
	assert.False(t, doc.Value.set)

	require.NoError(t, sandwichjson.Unmarshal([]byte(`{"value":{"nested":[1, 2]}}`), &doc))
	assert.JSONEq(t, `{"nested":[1,2]}`, string(doc.Value.value))
}

func TestHTMLIsNotEscaped(t *testing.T) {
	t.Parallel()

	encoded, err := sandwichjson.Marshal(map[string]string{"content": "<b>&</b>"})
	require.NoError(t, err)
	assert.Equal(t, `{"content":"<b>&</b>"}`, string(encoded))
}

func TestStreamingHelpers(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer

	require.NoError(t, sandwichjson.MarshalToWriter(&buffer, document{Name: "stream"}))

	var doc document

	require.NoError(t, sandwichjson.UnmarshalReader(&buffer, &doc))
	assert.Equal(t, "stream", doc.Name)
}
