package codec

import (
	"testing"

	"github.com/bmizerany/assert"
)

type testMsg struct {
	ID        string
	F1        float64
	F2        int
	ListField []int
	Nested    map[string]string
}

func testPacker(t *testing.T, packer MsgPacker) {
	msg := testMsg{
		ID:        "abc",
		F1:        0.125,
		F2:        7,
		ListField: []int{1, 2, 3},
		Nested:    map[string]string{"k": "v"},
	}
	buf, err := packer.PackMsg(msg, nil)
	if err != nil {
		t.Fatal(err)
	}

	var out testMsg
	if err := packer.UnpackMsg(buf, &out); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, msg, out)
}

func TestMessagePackMsgPacker(t *testing.T) {
	testPacker(t, MessagePackMsgPacker{})
}

func TestJSONMsgPacker(t *testing.T) {
	testPacker(t, JSONMsgPacker{})
	buf, _ := JSONMsgPacker{}.PackMsg(map[string]int{"a": 1}, nil)
	assert.Equal(t, `{"a":1}`, string(buf))
}

func TestByName(t *testing.T) {
	p, err := ByName("json")
	assert.Equal(t, nil, err)
	assert.Equal(t, JSONMsgPacker{}, p)
	p, _ = ByName("")
	assert.Equal(t, MessagePackMsgPacker{}, p)
	_, err = ByName("xml")
	assert.T(t, err != nil, "xml should be unknown")
}

func BenchmarkMessagePackMsgPacker(b *testing.B) {
	packer := MessagePackMsgPacker{}
	msg := testMsg{ID: "abc", F1: 0.123124234, ListField: []int{1, 2, 3}}
	for i := 0; i < b.N; i++ {
		buf, _ := packer.PackMsg(msg, make([]byte, 0, 100))
		var restored testMsg
		_ = packer.UnpackMsg(buf, &restored)
	}
}
