package vtterm

import "testing"

func TestBuilderPrint(t *testing.T) {
	b := NewBuilder(nil)
	cmds := b.Build(Sequence{Kind: SeqPrint, Rune: 'x'})
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	pc, ok := cmds[0].(PrintCommand)
	if !ok || pc.Rune != 'x' {
		t.Errorf("cmds[0] = %+v, want PrintCommand{'x'}", cmds[0])
	}
}

func TestBuilderCursorMove(t *testing.T) {
	b := NewBuilder(nil)
	cmds := b.Build(Sequence{Kind: SeqCSI, Final: 'A', Params: []int{3}})
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	mc, ok := cmds[0].(MoveCursorCommand)
	if !ok || mc.Dir != DirUp || mc.Count != 3 {
		t.Errorf("cmds[0] = %+v, want MoveCursorCommand{Up, 3}", cmds[0])
	}
}

func TestBuilderCursorPosition(t *testing.T) {
	b := NewBuilder(nil)
	cmds := b.Build(Sequence{Kind: SeqCSI, Final: 'H', Params: []int{5, 10}})
	gc, ok := cmds[0].(GotoCommand)
	if !ok || gc.Row != 4 || gc.Col != 9 {
		t.Errorf("cmds[0] = %+v, want GotoCommand{4, 9} (1-based converted to 0-based)", cmds[0])
	}
}

func TestBuilderSGRReset(t *testing.T) {
	b := NewBuilder(nil)
	cmds := b.Build(Sequence{Kind: SeqCSI, Final: 'm', Params: []int{0}})
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	if _, ok := cmds[0].(ResetAttrsCommand); !ok {
		t.Errorf("cmds[0] = %+v, want ResetAttrsCommand", cmds[0])
	}
}

func TestBuilderSGRTrueColorForeground(t *testing.T) {
	b := NewBuilder(nil)
	cmds := b.Build(Sequence{Kind: SeqCSI, Final: 'm', Params: []int{38, 2, 10, 20, 30}})
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	fc, ok := cmds[0].(SetForegroundCommand)
	if !ok {
		t.Fatalf("cmds[0] = %+v, want SetForegroundCommand", cmds[0])
	}
	rgb, ok := fc.Color.(RGBColor)
	if !ok || rgb.R != 10 || rgb.G != 20 || rgb.B != 30 {
		t.Errorf("fc.Color = %+v, want RGBColor{10,20,30}", fc.Color)
	}
}

func TestBuilderSGR256Color(t *testing.T) {
	b := NewBuilder(nil)
	cmds := b.Build(Sequence{Kind: SeqCSI, Final: 'm', Params: []int{48, 5, 200}})
	bc, ok := cmds[0].(SetBackgroundCommand)
	if !ok {
		t.Fatalf("cmds[0] = %+v, want SetBackgroundCommand", cmds[0])
	}
	idx, ok := bc.Color.(IndexedColor)
	if !ok || idx.Index != 200 {
		t.Errorf("bc.Color = %+v, want IndexedColor{200}", bc.Color)
	}
}

func TestBuilderModeChangePrivate(t *testing.T) {
	b := NewBuilder(nil)
	cmds := b.Build(Sequence{Kind: SeqCSI, Final: 'h', Marker: '?', Params: []int{25}})
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	sm, ok := cmds[0].(SetModeCommand)
	if !ok || sm.Mode != ModeCursorVisible || !sm.Private {
		t.Errorf("cmds[0] = %+v, want SetModeCommand{ModeCursorVisible, private}", cmds[0])
	}
}

func TestBuilderAltScreenSwitch(t *testing.T) {
	b := NewBuilder(nil)
	cmds := b.Build(Sequence{Kind: SeqCSI, Final: 'h', Marker: '?', Params: []int{1049}})
	ss, ok := cmds[0].(SwitchScreenCommand)
	if !ok || !ss.Alt || !ss.SaveCursor || !ss.ClearOnExit {
		t.Errorf("cmds[0] = %+v, want SwitchScreenCommand{Alt:true,SaveCursor:true,ClearOnExit:true}", cmds[0])
	}
}

func TestBuilderDECSLRMvsSaveCursor(t *testing.T) {
	b := NewBuilder(nil)
	// Two params -> DECSLRM.
	cmds := b.Build(Sequence{Kind: SeqCSI, Final: 's', Params: []int{1, 10}})
	if _, ok := cmds[0].(SetLeftRightMarginsCommand); !ok {
		t.Errorf("two-param CSI s = %+v, want SetLeftRightMarginsCommand", cmds[0])
	}
	// No params -> legacy save cursor.
	cmds = b.Build(Sequence{Kind: SeqCSI, Final: 's'})
	if _, ok := cmds[0].(SaveCursorCommand); !ok {
		t.Errorf("no-param CSI s = %+v, want SaveCursorCommand", cmds[0])
	}
}

func TestBuilderOSCTitle(t *testing.T) {
	b := NewBuilder(nil)
	cmds := b.Build(Sequence{Kind: SeqOSC, Data: []byte("2;my title")})
	st, ok := cmds[0].(SetTitleCommand)
	if !ok || st.Title != "my title" || st.Kind != 2 {
		t.Errorf("cmds[0] = %+v, want SetTitleCommand{\"my title\", 2}", cmds[0])
	}
}

func TestBuilderOSCHyperlink(t *testing.T) {
	b := NewBuilder(nil)
	cmds := b.Build(Sequence{Kind: SeqOSC, Data: []byte("8;id=42;https://example.com")})
	hc, ok := cmds[0].(SetHyperlinkCommand)
	if !ok || hc.ID != "42" || hc.URI != "https://example.com" {
		t.Errorf("cmds[0] = %+v, want SetHyperlinkCommand{42, https://example.com}", cmds[0])
	}
}

func TestBuilderOSC52ClipboardWrite(t *testing.T) {
	b := NewBuilder(nil)
	cmds := b.Build(Sequence{Kind: SeqOSC, Data: []byte("52;c;aGVsbG8=")})
	cc, ok := cmds[0].(ClipboardCommand)
	if !ok || cc.Data != "hello" || cc.Selection != 'c' || cc.Query {
		t.Errorf("cmds[0] = %+v, want ClipboardCommand{'c', \"hello\", false}", cmds[0])
	}
}

func TestBuilderOSC52ClipboardQuery(t *testing.T) {
	b := NewBuilder(nil)
	cmds := b.Build(Sequence{Kind: SeqOSC, Data: []byte("52;c;?")})
	cc, ok := cmds[0].(ClipboardCommand)
	if !ok || !cc.Query {
		t.Errorf("cmds[0] = %+v, want ClipboardCommand{Query:true}", cmds[0])
	}
}

func TestBuilderUnsupportedCSI(t *testing.T) {
	b := NewBuilder(nil)
	cmds := b.Build(Sequence{Kind: SeqCSI, Final: '~', Params: []int{1}})
	if _, ok := cmds[0].(UnsupportedCommand); !ok {
		t.Errorf("cmds[0] = %+v, want UnsupportedCommand", cmds[0])
	}
}

func TestBuilderDynamicColorQuery(t *testing.T) {
	b := NewBuilder(nil)
	cmds := b.Build(Sequence{Kind: SeqOSC, Data: []byte("10;?")})
	qc, ok := cmds[0].(QueryDynamicColorCommand)
	if !ok || qc.Index != -1 {
		t.Errorf("cmds[0] = %+v, want QueryDynamicColorCommand{-1}", cmds[0])
	}
}

func TestBuilderDynamicColorSetHex(t *testing.T) {
	b := NewBuilder(nil)
	cmds := b.Build(Sequence{Kind: SeqOSC, Data: []byte("11;#112233")})
	sc, ok := cmds[0].(SetDynamicColorCommand)
	if !ok {
		t.Fatalf("cmds[0] = %+v, want SetDynamicColorCommand", cmds[0])
	}
	rgb, ok := sc.Color.(RGBColor)
	if !ok || rgb.R != 0x11 || rgb.G != 0x22 || rgb.B != 0x33 {
		t.Errorf("sc.Color = %+v, want RGBColor{0x11,0x22,0x33}", sc.Color)
	}
}
