package vtterm

import "testing"

func TestParserPrintablePrintsRunes(t *testing.T) {
	p := NewParser()
	seqs := p.Parse([]byte("ab"))
	if len(seqs) != 2 {
		t.Fatalf("got %d sequences, want 2", len(seqs))
	}
	if seqs[0].Kind != SeqPrint || seqs[0].Rune != 'a' {
		t.Errorf("seqs[0] = %+v, want Print 'a'", seqs[0])
	}
	if seqs[1].Kind != SeqPrint || seqs[1].Rune != 'b' {
		t.Errorf("seqs[1] = %+v, want Print 'b'", seqs[1])
	}
}

func TestParserC0Control(t *testing.T) {
	p := NewParser()
	seqs := p.Parse([]byte{0x0a})
	if len(seqs) != 1 || seqs[0].Kind != SeqControl || seqs[0].Byte != 0x0a {
		t.Fatalf("got %+v, want one SeqControl 0x0a", seqs)
	}
}

func TestParserCSIBasic(t *testing.T) {
	p := NewParser()
	seqs := p.Parse([]byte("\x1b[1;2H"))
	if len(seqs) != 1 {
		t.Fatalf("got %d sequences, want 1", len(seqs))
	}
	s := seqs[0]
	if s.Kind != SeqCSI || s.Final != 'H' {
		t.Fatalf("s = %+v, want CSI final H", s)
	}
	if len(s.Params) != 2 || s.Params[0] != 1 || s.Params[1] != 2 {
		t.Errorf("s.Params = %v, want [1 2]", s.Params)
	}
}

func TestParserCSIPrivateMarker(t *testing.T) {
	p := NewParser()
	seqs := p.Parse([]byte("\x1b[?25h"))
	if len(seqs) != 1 {
		t.Fatalf("got %d sequences, want 1", len(seqs))
	}
	s := seqs[0]
	if s.Marker != '?' || s.Final != 'h' || len(s.Params) != 1 || s.Params[0] != 25 {
		t.Errorf("s = %+v, want marker=? final=h params=[25]", s)
	}
}

func TestParserCSIDefaultParam(t *testing.T) {
	p := NewParser()
	seqs := p.Parse([]byte("\x1b[H"))
	if len(seqs) != 1 {
		t.Fatalf("got %d sequences, want 1", len(seqs))
	}
	s := seqs[0]
	if len(s.Params) != 1 || s.Params[0] != 0 {
		t.Errorf("s.Params = %v, want [0] (no digits collected)", s.Params)
	}
}

func TestParserEscapeSequence(t *testing.T) {
	p := NewParser()
	seqs := p.Parse([]byte("\x1bc"))
	if len(seqs) != 1 || seqs[0].Kind != SeqEscape || seqs[0].Final != 'c' {
		t.Fatalf("got %+v, want SeqEscape final c", seqs)
	}
}

func TestParserOSCTerminatedByBEL(t *testing.T) {
	p := NewParser()
	seqs := p.Parse([]byte("\x1b]0;title\x07"))
	if len(seqs) != 1 || seqs[0].Kind != SeqOSC {
		t.Fatalf("got %+v, want one SeqOSC", seqs)
	}
	if string(seqs[0].Data) != "0;title" {
		t.Errorf("seqs[0].Data = %q, want %q", seqs[0].Data, "0;title")
	}
}

func TestParserOSCTerminatedByST(t *testing.T) {
	p := NewParser()
	seqs := p.Parse([]byte("\x1b]0;title\x1b\\"))
	if len(seqs) != 1 || seqs[0].Kind != SeqOSC {
		t.Fatalf("got %+v, want one SeqOSC", seqs)
	}
	if string(seqs[0].Data) != "0;title" {
		t.Errorf("seqs[0].Data = %q, want %q", seqs[0].Data, "0;title")
	}
}

func TestParserOSCTerminatedByC1ST(t *testing.T) {
	p := NewParser()
	seqs := p.Parse([]byte("\x1b]0;title\x9c"))
	if len(seqs) != 1 || seqs[0].Kind != SeqOSC {
		t.Fatalf("got %+v, want one SeqOSC", seqs)
	}
}

func TestParserDCSPassthrough(t *testing.T) {
	p := NewParser()
	seqs := p.Parse([]byte("\x1bPsome data\x1b\\"))
	if len(seqs) != 1 || seqs[0].Kind != SeqDCS {
		t.Fatalf("got %+v, want one SeqDCS", seqs)
	}
	if string(seqs[0].Data) != "some data" {
		t.Errorf("seqs[0].Data = %q, want %q", seqs[0].Data, "some data")
	}
}

func TestParserAPCString(t *testing.T) {
	p := NewParser()
	seqs := p.Parse([]byte("\x1b_hello\x1b\\"))
	if len(seqs) != 1 || seqs[0].Kind != SeqAPC {
		t.Fatalf("got %+v, want one SeqAPC", seqs)
	}
}

func TestParserUTF8MultiByte(t *testing.T) {
	p := NewParser()
	seqs := p.Parse([]byte("中"))
	if len(seqs) != 1 || seqs[0].Kind != SeqPrint || seqs[0].Rune != '中' {
		t.Fatalf("got %+v, want one Print '中'", seqs)
	}
}

func TestParserSplitAcrossCalls(t *testing.T) {
	p := NewParser()
	data := []byte("\x1b[1;2H")
	var all []Sequence
	for _, b := range data {
		all = append(all, p.Parse([]byte{b})...)
	}
	if len(all) != 1 || all[0].Kind != SeqCSI || all[0].Final != 'H' {
		t.Fatalf("feeding byte-by-byte got %+v, want one CSI H", all)
	}
}

func TestParserCANAbortsEscape(t *testing.T) {
	p := NewParser()
	// ESC [ 1 <CAN> should abandon the CSI sequence and return to ground.
	seqs := p.Parse([]byte("\x1b[1\x18a"))
	foundPrint := false
	for _, s := range seqs {
		if s.Kind == SeqPrint && s.Rune == 'a' {
			foundPrint = true
		}
	}
	if !foundPrint {
		t.Errorf("got %+v, want a trailing Print 'a' after CAN abort", seqs)
	}
}
