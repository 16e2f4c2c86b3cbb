package midiport

import "testing"

func TestMemoryPortRecordsMessagesInOrder(t *testing.T) {
	p := NewMemoryPort()
	p.SendNoteOn(0, 60, 127)
	p.SendProgramChange(0, 5)
	p.SendNoteOff(0, 60, 0)

	got := p.Messages()
	if len(got) != 3 {
		t.Fatalf("got %d messages, want 3", len(got))
	}
	if got[0].Kind != "note_on" || got[0].NoteOrController != 60 {
		t.Fatalf("got %+v", got[0])
	}
	if got[1].Kind != "program_change" || got[1].VelocityOrProgramVal != 5 {
		t.Fatalf("got %+v", got[1])
	}
	if got[2].Kind != "note_off" {
		t.Fatalf("got %+v", got[2])
	}
}

func TestMemoryPortSupportsOutput(t *testing.T) {
	if !NewMemoryPort().SupportsOutput() {
		t.Fatal("MemoryPort should always support output")
	}
}

func TestStubPortsDoNotSupportOutput(t *testing.T) {
	for _, p := range []Port{NewALSAPort(), NewLinkPort(), NewSerialPort()} {
		if p.SupportsOutput() {
			t.Fatal("stub ports must report SupportsOutput()==false")
		}
		if err := p.SendNoteOn(0, 1, 1); err == nil {
			t.Fatal("stub port should refuse to send")
		}
	}
}
