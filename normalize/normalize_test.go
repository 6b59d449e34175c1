package normalize

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "utc",
			input: "2021-06-01T12:30:45Z",
			want:  time.Date(2021, 6, 1, 12, 30, 45, 0, time.UTC),
		},
		{
			name:  "utc with millis",
			input: "2021-06-01T12:30:45.123Z",
			want:  time.Date(2021, 6, 1, 12, 30, 45, 123_000_000, time.UTC),
		},
		{
			name:  "positive offset with colon",
			input: "2021-06-01T12:30:45+02:00",
			want:  time.Date(2021, 6, 1, 10, 30, 45, 0, time.UTC),
		},
		{
			name:  "negative offset without colon",
			input: "2021-06-01T12:30:45-0530",
			want:  time.Date(2021, 6, 1, 18, 0, 45, 0, time.UTC),
		},
		{
			name:  "hour only offset",
			input: "2021-06-01T12:30:45.5+01",
			want:  time.Date(2021, 6, 1, 11, 30, 45, 500_000_000, time.UTC),
		},
		{
			name:  "nanosecond precision is truncated beyond nine digits",
			input: "2021-06-01T12:30:45.1234567891Z",
			want:  time.Date(2021, 6, 1, 12, 30, 45, 123_456_789, time.UTC),
		},
		{
			name:  "leap day",
			input: "2024-02-29T00:00:00Z",
			want:  time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			require.True(t, ok)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"hello",
		"2021-13-40T99:99:99",
		"2021-13-40T99:99:99Z",
		"2021-02-30T10:00:00Z",
		"2023-02-29T10:00:00Z",
		"2021-01-01T24:00:00Z",
		"hello 2021-01-01",
		"hello 2021-01-01T10:00:00Z",
		"2021-01-01T10:00:00Z trailing",
		"2021-01-01",
		"2021-01-01T10:00:00",
		"2021-01-01 10:00:00Z",
		"2021-01-01T10:00:00+",
		"2021-01-01T10:00:00+123",
		"2021-01-01T10:00:00+25:00",
		"2021-1-01T10:00:00Z",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, ok := ParseDate(input)
			assert.False(t, ok)
			assert.Equal(t, input, Value(input))
		})
	}
}

func TestParseDate_RoundTripPreservesInstant(t *testing.T) {
	inputs := []string{
		"2021-06-01T12:30:45Z",
		"2021-06-01T12:30:45.123456Z",
		"2021-06-01T12:30:45+02:00",
		"1999-12-31T23:59:59.999-08:00",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			parsed, ok := ParseDate(input)
			require.True(t, ok)

			reparsed, err := time.Parse(time.RFC3339Nano, parsed.Format(time.RFC3339Nano))
			require.NoError(t, err)

			original, err := time.Parse(time.RFC3339Nano, input)
			require.NoError(t, err)

			assert.True(t, reparsed.Equal(original))
		})
	}
}

func TestValue_IdentityWithoutDates(t *testing.T) {
	tree := map[string]any{
		"name":    "alice",
		"count":   json.Number("42"),
		"ratio":   1.5,
		"active":  true,
		"missing": nil,
		"tags":    []any{"a", "b", json.Number("3")},
		"nested": map[string]any{
			"deeper": []any{map[string]any{"x": "2021-01-01"}},
		},
		"empty_list": []any{},
		"empty_map":  map[string]any{},
	}

	assert.Equal(t, tree, Value(tree))
}

func TestValue_CoercesNestedValuesButNotKeys(t *testing.T) {
	const stamp = "2021-06-01T12:30:45Z"
	tree := map[string]any{
		stamp:     "value",
		"created": stamp,
		"chats": []any{
			map[string]any{"sent": stamp, "text": "hi"},
			stamp,
		},
	}

	got, ok := Value(tree).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "value", got[stamp])
	assert.IsType(t, time.Time{}, got["created"])

	chats, ok := got["chats"].([]any)
	require.True(t, ok)
	require.Len(t, chats, 2)

	first, ok := chats[0].(map[string]any)
	require.True(t, ok)
	assert.IsType(t, time.Time{}, first["sent"])
	assert.Equal(t, "hi", first["text"])
	assert.IsType(t, time.Time{}, chats[1])
}

func TestValue_DoesNotMutateInput(t *testing.T) {
	const stamp = "2021-06-01T12:30:45Z"
	list := []any{stamp, "plain"}
	tree := map[string]any{"at": stamp, "list": list}

	_ = Value(tree)

	assert.Equal(t, stamp, tree["at"])
	assert.Equal(t, stamp, list[0])
}

func TestValue_PreservesSequenceOrderAndLength(t *testing.T) {
	input := []any{"c", json.Number("1"), "2021-06-01T12:30:45Z", nil, false, "a"}

	got, ok := Value(input).([]any)
	require.True(t, ok)
	require.Len(t, got, len(input))

	assert.Equal(t, "c", got[0])
	assert.Equal(t, json.Number("1"), got[1])
	assert.IsType(t, time.Time{}, got[2])
	assert.Nil(t, got[3])
	assert.Equal(t, false, got[4])
	assert.Equal(t, "a", got[5])
}

func TestValue_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stamp := fmt.Sprintf("2021-06-%02dT12:00:00Z", i%28+1)
			got, ok := Value(map[string]any{"at": stamp}).(map[string]any)
			if !assert.True(t, ok) {
				return
			}
			ts, ok := got["at"].(time.Time)
			if assert.True(t, ok) {
				assert.Equal(t, i%28+1, ts.Day())
			}
		}(i)
	}
	wg.Wait()
}

func TestDecode(t *testing.T) {
	tree, err := Decode([]byte(`{"id": 9007199254740993, "created": "2021-06-01T12:30:45Z", "list": ["x"]}`))
	require.NoError(t, err)

	got, ok := tree.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("9007199254740993"), got["id"])
	assert.IsType(t, time.Time{}, got["created"])
	assert.Equal(t, []any{"x"}, got["list"])
}

func TestDecode_EmptyBody(t *testing.T) {
	tree, err := Decode([]byte("  \n"))
	require.NoError(t, err)
	assert.Nil(t, tree)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte(`{"id":`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"id": 1} {"id": 2}`))
	assert.Error(t, err)
}

func TestInto_TypedDestination(t *testing.T) {
	type record struct {
		ID      int64     `json:"id"`
		Created time.Time `json:"created"`
		Tags    []string  `json:"tags"`
	}

	tree, err := Decode([]byte(`{"id": 7, "created": "2021-06-01T12:30:45+02:00", "tags": ["a","b"]}`))
	require.NoError(t, err)

	var got record
	require.NoError(t, Into(tree, &got))

	assert.Equal(t, int64(7), got.ID)
	assert.True(t, got.Created.Equal(time.Date(2021, 6, 1, 10, 30, 45, 0, time.UTC)))
	assert.Equal(t, []string{"a", "b"}, got.Tags)
}

func TestInto_AnyDestinationKeepsTree(t *testing.T) {
	tree := map[string]any{"at": time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)}

	var got any
	require.NoError(t, Into(tree, &got))
	assert.Equal(t, tree, got)
}

func TestInto_NilDestination(t *testing.T) {
	assert.Error(t, Into(map[string]any{}, nil))
}

func BenchmarkValue(b *testing.B) {
	chats := make([]any, 0, 100)
	for i := 0; i < 100; i++ {
		chats = append(chats, map[string]any{
			"uuid":    "0f8fad5b-d9cb-469f-a165-70867728950e",
			"sent":    "2021-06-01T12:30:45.123Z",
			"payload": map[string]any{"type": "text", "text": "hello there"},
		})
	}
	tree := map[string]any{"chats": chats}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Value(tree)
	}
}
