//go:build linux

package input

import "testing"

func TestEvdevTranslate(t *testing.T) {
	m := NewMapping("dfjk")
	tests := []struct {
		ev  keyEvent
		out Event
		ok  bool
	}{
		{keyEvent{Type: evKey, Code: 32, Value: 1}, Event{Lane: 0}, true},
		{keyEvent{Type: evKey, Code: 37, Value: 1}, Event{Lane: 3}, true},
		{keyEvent{Type: evKey, Code: 37, Value: 0}, Event{}, false},
		{keyEvent{Type: evKey, Code: 37, Value: 2}, Event{}, false},
		{keyEvent{Type: evKey, Code: 16, Value: 1}, Event{}, false},
		{keyEvent{Type: evKey, Code: keyEsc, Value: 1}, Event{Stop: true}, true},
		{keyEvent{Type: 0x04, Code: 32, Value: 1}, Event{}, false},
	}
	for _, test := range tests {
		out, ok := m.translate(test.ev)
		if out != test.out || ok != test.ok {
			t.Log("in      ", test.ev)
			t.Log("out     ", out, ok)
			t.Log("expected", test.out, test.ok)
			t.Fail()
		}
	}
}
