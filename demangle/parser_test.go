package demangle

import (
	"errors"
	"fmt"
	"testing"
)

func TestReadNumber(t *testing.T) {
	tests := []struct {
		input string
		want  int32
		rest  string
	}{
		// One decimal digit encodes the digit plus one.
		{"0", 1, ""},
		{"8", 9, ""},
		{"9HA", 10, "HA"},
		{"?8", -9, ""},
		// Hex digits A..P, terminated by '@'. A bare '@' is zero.
		{"@", 0, ""},
		{"A@", 0, ""},
		{"B@", 1, ""},
		{"P@", 15, ""},
		{"BA@", 16, ""},
		{"NKM@5", 3500, "5"},
		{"?BA@", -16, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := newParser(tt.input)
			got, err := p.readNumber()
			if err != nil {
				t.Fatalf("readNumber(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("readNumber(%q) = %d, want %d", tt.input, got, tt.want)
			}
			if string(p.input) != tt.rest {
				t.Errorf("readNumber(%q) left %q, want %q", tt.input, p.input, tt.rest)
			}
		})
	}
}

func TestReadNumberErrors(t *testing.T) {
	for _, input := range []string{"", "?", "_", "Q@", "AB"} {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			_, err := newParser(input).readNumber()
			if !errors.Is(err, ErrBadNumber) && !errors.Is(err, ErrUnexpectedEnd) {
				t.Errorf("readNumber(%q) error = %v, want bad number", input, err)
			}
		})
	}
}

func TestReadString(t *testing.T) {
	p := newParser("foo@rest")
	s, err := p.readString()
	if err != nil {
		t.Fatalf("readString error: %v", err)
	}
	if s != "foo" {
		t.Errorf("readString = %q, want %q", s, "foo")
	}
	if string(p.input) != "rest" {
		t.Errorf("readString left %q, want %q", p.input, "rest")
	}

	_, err = newParser("unterminated").readString()
	if !errors.Is(err, ErrMissingTerminator) {
		t.Errorf("readString error = %v, want %v", err, ErrMissingTerminator)
	}
}

func TestMemorizeNameBounds(t *testing.T) {
	p := newParser("")
	for i := 0; i < 15; i++ {
		p.memorizeName(&Identifier{Raw: fmt.Sprintf("n%d", i)})
	}
	if len(p.memorizedNames) != maxBackrefs {
		t.Errorf("memorized %d names, want %d", len(p.memorizedNames), maxBackrefs)
	}
}

func TestMemorizeNameDistinct(t *testing.T) {
	p := newParser("")
	p.memorizeName(&Identifier{Raw: "a"})
	p.memorizeName(&Identifier{Raw: "a"})
	p.memorizeName(&Identifier{Raw: "b"})
	p.memorizeName(&Identifier{Raw: "a"})
	if len(p.memorizedNames) != 2 {
		t.Fatalf("memorized %d names, want 2", len(p.memorizedNames))
	}
	if p.memorizedNames[0].(*Identifier).Raw != "a" || p.memorizedNames[1].(*Identifier).Raw != "b" {
		t.Errorf("memorized names out of order: %v", p.memorizedNames)
	}
}

func TestMemorizeTypeDistinct(t *testing.T) {
	p := newParser("")
	p.memorizeType(&Primitive{Kind: PrimInt})
	p.memorizeType(&Primitive{Kind: PrimInt})
	p.memorizeType(&Ptr{Inner: &Primitive{Kind: PrimInt}})
	if len(p.memorizedTypes) != 2 {
		t.Errorf("memorized %d types, want 2", len(p.memorizedTypes))
	}
}

func TestParseVariable(t *testing.T) {
	r, err := Parse("?x@ns@@3HA")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	name, ok := r.Symbol.Name.(*Identifier)
	if !ok || name.Raw != "x" {
		t.Errorf("symbol name = %#v, want identifier x", r.Symbol.Name)
	}
	if len(r.Symbol.Scope.Names) != 1 {
		t.Fatalf("scope has %d names, want 1", len(r.Symbol.Scope.Names))
	}
	prim, ok := r.Type.(*Primitive)
	if !ok || prim.Kind != PrimInt {
		t.Errorf("type = %#v, want int", r.Type)
	}
}

func TestParseMemberFunctionClass(t *testing.T) {
	r, err := Parse("??_GnsWindowsShellService@@EAEPAXI@Z")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	fn, ok := r.Type.(*MemberFunction)
	if !ok {
		t.Fatalf("type = %T, want *MemberFunction", r.Type)
	}
	if !fn.Class.Has(FCPrivate | FCVirtual) {
		t.Errorf("function class = %b, want private virtual", fn.Class)
	}
	if fn.CallConv != CCThiscall {
		t.Errorf("calling convention = %v, want thiscall", fn.CallConv)
	}
}

func TestParseThunkDiscardsAdjustment(t *testing.T) {
	r, err := Parse("?Release@ContentSignatureVerifier@@WBA@AGKXZ")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	fn, ok := r.Type.(*MemberFunction)
	if !ok {
		t.Fatalf("type = %T, want *MemberFunction", r.Type)
	}
	if !fn.Class.Has(FCThunk) {
		t.Errorf("function class = %b, want thunk flag", fn.Class)
	}
}

// Template argument lists must not leak back-references into the
// enclosing symbol, and the enclosing table must keep counting past
// them: in ?x@ns@@3PEAV?$klass@HH@1@EA the reference 1 resolves to ns,
// not to anything inside klass<int,int>.
func TestTemplateBackrefIsolation(t *testing.T) {
	r, err := Parse("?x@ns@@3PEAV?$klass@HH@1@EA")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	ptr, ok := r.Type.(*Ptr)
	if !ok {
		t.Fatalf("type = %T, want *Ptr", r.Type)
	}
	tag, ok := ptr.Inner.(*TagType)
	if !ok || tag.Kind != TagClass {
		t.Fatalf("pointee = %#v, want class type", ptr.Inner)
	}
	if len(tag.Sym.Scope.Names) != 1 {
		t.Fatalf("tag scope has %d names, want 1", len(tag.Sym.Scope.Names))
	}
	scope, ok := tag.Sym.Scope.Names[0].(*Identifier)
	if !ok || scope.Raw != "ns" {
		t.Errorf("tag scope = %#v, want ns", tag.Sym.Scope.Names[0])
	}
}

// A symbol embedded as a scope component parses against the same
// back-reference tables as its enclosing symbol.
func TestParseEmbeddedSymbol(t *testing.T) {
	r, err := Parse("?cached@?1??GetLong@BinaryPath@mozilla@@SA?AW4nsresult@@QA_W@Z@4_NA")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(r.Symbol.Scope.Names) != 2 {
		t.Fatalf("scope has %d names, want 2", len(r.Symbol.Scope.Names))
	}
	if d, ok := r.Symbol.Scope.Names[0].(*Discriminator); !ok || d.Value != 2 {
		t.Errorf("scope[0] = %#v, want discriminator 2", r.Symbol.Scope.Names[0])
	}
	inner, ok := r.Symbol.Scope.Names[1].(*ParsedName)
	if !ok {
		t.Fatalf("scope[1] = %T, want *ParsedName", r.Symbol.Scope.Names[1])
	}
	if _, ok := inner.Inner.Type.(*MemberFunction); !ok {
		t.Errorf("embedded symbol type = %T, want *MemberFunction", inner.Inner.Type)
	}
}

func TestParseLeavesTrailingStorageBytes(t *testing.T) {
	// The trailing EA after the variable type carries no information and
	// is ignored.
	if _, err := Parse("?x@@3PEAHEA"); err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if _, err := Parse("?x@@3PEAH"); err != nil {
		t.Fatalf("Parse without trailing bytes error: %v", err)
	}
}
