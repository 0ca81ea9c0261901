package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	waProto "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
)

func inbound(text string, mutate func(*events.Message)) *events.Message {
	sender := types.NewJID("966500000001", types.DefaultUserServer)
	evt := &events.Message{
		Info: types.MessageInfo{
			MessageSource: types.MessageSource{Chat: sender, Sender: sender},
			PushName:      "Sara",
		},
		Message: &waProto.Message{Conversation: &text},
	}
	if mutate != nil {
		mutate(evt)
	}
	return evt
}

func TestParseMessage(t *testing.T) {
	phone, name, content, ok := ParseMessage(inbound("  price?  ", nil))
	assert.True(t, ok)
	assert.Equal(t, "966500000001", phone)
	assert.Equal(t, "Sara", name)
	assert.Equal(t, "price?", content)
}

func TestParseMessage_ExtendedText(t *testing.T) {
	text := "hello there"
	evt := inbound("", func(e *events.Message) {
		e.Message = &waProto.Message{ExtendedTextMessage: &waProto.ExtendedTextMessage{Text: &text}}
	})
	_, _, content, ok := ParseMessage(evt)
	assert.True(t, ok)
	assert.Equal(t, "hello there", content)
}

func TestParseMessage_Skips(t *testing.T) {
	cases := map[string]*events.Message{
		"own":   inbound("hi", func(e *events.Message) { e.Info.IsFromMe = true }),
		"group": inbound("hi", func(e *events.Message) { e.Info.IsGroup = true; e.Info.Chat = types.NewJID("1203", types.GroupServer) }),
		"empty": inbound("   ", nil),
		"nil":   nil,
	}
	for name, evt := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, _, ok := ParseMessage(evt)
			assert.False(t, ok)
		})
	}
}
