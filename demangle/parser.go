package demangle

// The parser is a recursive descent over the mangling grammar used by the
// Microsoft C++ compiler. The overall shape, following MicrosoftMangle.cpp:
//
//	<mangled-name>     ::= ? <name> <type-encoding>
//	<name>             ::= <unqualified-name> {<nested-name>}* @
//	<unqualified-name> ::= <operator-name> | <ctor-dtor-name>
//	                     | <source-name> | <template-name>
//	<source-name>      ::= <identifier> @
//	<template-name>    ::= ?$ <unqualified-name> <template-args>
//	<type-encoding>    ::= <function-class> <function-type>
//	                     | <storage-class> <variable-type>
//
// Grammar positions that repeat a name or type may instead hold a single
// digit back-referencing one of the first ten distinct names or types
// already seen. Template argument lists carry their own back-reference
// tables, isolated from the enclosing symbol's.

// maxBackrefs bounds each back-reference table: only the first ten
// distinct entries are addressable.
const maxBackrefs = 10

// Placeholder operator spellings resolved against the scope chain at
// print time.
const (
	opCtor    = "ctor"
	opDtor    = "dtor"
	opVBTable = "`vbtable'"
)

// parser holds the cursor and the back-reference tables for one parse.
// Nothing is shared across calls; a fresh parser is made per symbol.
type parser struct {
	// Remaining unparsed suffix. The read methods in reader.go shorten
	// it as they go.
	input []byte

	memorizedNames []Name
	memorizedTypes []Type
}

func newParser(input string) *parser {
	return &parser{
		input:          []byte(input),
		memorizedNames: make([]Name, 0, maxBackrefs),
		memorizedTypes: make([]Type, 0, maxBackrefs),
	}
}

// parse reads one complete mangled symbol. It is also invoked recursively
// for symbols embedded as name components.
func (p *parser) parse() (*ParseResult, error) {
	if !p.consume("?") {
		return nil, p.fail(ErrNotMangled)
	}

	if p.consume("$") {
		if p.consume("TSS") {
			d, ok := p.consumeDigit()
			if !ok {
				return nil, p.fail(ErrBadNumber)
			}
			guard := int32(d)
			for !p.consume("@") {
				d, ok = p.consumeDigit()
				if !ok {
					return nil, p.fail(ErrBadNumber)
				}
				guard = guard*10 + int32(d)
			}
			name, err := p.readNestedName()
			if err != nil {
				return nil, err
			}
			scope, err := p.readScope()
			if err != nil {
				return nil, err
			}
			if err := p.expect("4HA"); err != nil {
				return nil, err
			}
			return &ParseResult{
				Symbol: Symbol{Name: name, Scope: scope},
				Type:   &ThreadSafeStaticGuard{Num: guard},
			}, nil
		}

		// A bare template name, with no type encoding.
		name, err := p.readTemplateName()
		if err != nil {
			return nil, err
		}
		return &ParseResult{
			Symbol: Symbol{Name: name},
			Type:   &NoType{},
		}, nil
	}

	sym, err := p.readName(true)
	if err != nil {
		return nil, err
	}
	if op, ok := sym.Name.(*Operator); ok {
		if (op.Spelling == opCtor || op.Spelling == opDtor) && len(sym.Scope.Names) == 0 {
			return nil, p.fail(ErrMissingScope)
		}
	}

	c, err := p.get()
	if err != nil {
		// Some symbols, e.g. nested template names, stop after the name.
		return &ParseResult{Symbol: sym, Type: &NoType{}}, nil
	}

	var symType Type
	switch {
	case c >= '0' && c <= '5':
		// A variable.
		symType, err = p.readVarType(0)
		if err != nil {
			return nil, err
		}

	case c == '6':
		quals := p.readQualifier()
		scope, err := p.readScope()
		if err != nil {
			return nil, err
		}
		symType = &VFTable{Scope: scope, Quals: quals}

	case c == '7':
		quals := p.readQualifier()
		scope, err := p.readScope()
		if err != nil {
			return nil, err
		}
		symType = &VBTable{Scope: scope, Quals: quals}

	case c == 'Y':
		// A non-member function.
		cc, err := p.readCallingConv()
		if err != nil {
			return nil, err
		}
		retQuals, err := p.readStorageClassForReturn()
		if err != nil {
			return nil, err
		}
		ret, err := p.readVarType(retQuals)
		if err != nil {
			return nil, err
		}
		params, err := p.readFuncParams()
		if err != nil {
			return nil, err
		}
		symType = &NonMemberFunction{CallConv: cc, Params: params, Return: ret}

	default:
		// A member function.
		fc, err := p.readFuncClass(c)
		if err != nil {
			return nil, err
		}
		var thisQuals StorageClass
		if !fc.Has(FCStatic) {
			p.consume("E") // 64-bit 'this' marker
			thisQuals = p.readQualifier()
		}
		cc, err := p.readCallingConv()
		if err != nil {
			return nil, err
		}
		retQuals, err := p.readStorageClassForReturn()
		if err != nil {
			return nil, err
		}
		ret, err := p.readFuncReturnType(retQuals)
		if err != nil {
			return nil, err
		}
		params, err := p.readFuncParams()
		if err != nil {
			return nil, err
		}
		symType = &MemberFunction{
			Class:     fc,
			CallConv:  cc,
			Params:    params,
			ThisQuals: thisQuals,
			Return:    ret,
		}
	}

	return &ParseResult{Symbol: sym, Type: symType}, nil
}

// memorizeName records a name for back-referencing. Only the first ten
// distinct names are kept; duplicates are dropped so an index always
// resolves to the first occurrence.
func (p *parser) memorizeName(n Name) {
	if len(p.memorizedNames) >= maxBackrefs {
		return
	}
	for _, m := range p.memorizedNames {
		if nameEqual(m, n) {
			return
		}
	}
	p.memorizedNames = append(p.memorizedNames, n)
}

func (p *parser) memorizeType(t Type) {
	if len(p.memorizedTypes) >= maxBackrefs {
		return
	}
	for _, m := range p.memorizedTypes {
		if typeEqual(m, t) {
			return
		}
	}
	p.memorizedTypes = append(p.memorizedTypes, t)
}

// readTemplateName parses ?$-introduced template instantiations. Template
// argument encodings back-reference only names and types from their own
// instantiation, so the tables are swapped out for the duration.
func (p *parser) readTemplateName() (Name, error) {
	savedNames, savedTypes := p.memorizedNames, p.memorizedTypes
	p.memorizedNames = make([]Name, 0, maxBackrefs)
	p.memorizedTypes = make([]Type, 0, maxBackrefs)
	defer func() {
		p.memorizedNames, p.memorizedTypes = savedNames, savedTypes
	}()

	base, err := p.readUnqualifiedName(false)
	if err != nil {
		return nil, err
	}
	params, err := p.readParams()
	if err != nil {
		return nil, err
	}
	return &Template{Base: base, Params: params}, nil
}

// readNestedName parses one component of a scope chain.
func (p *parser) readNestedName() (Name, error) {
	orig := p.input

	if d, ok := p.consumeDigit(); ok {
		if int(d) >= len(p.memorizedNames) {
			return nil, p.failAt(orig, ErrBackrefOutOfRange)
		}
		return p.memorizedNames[d], nil
	}

	if p.consume("?") {
		if c, ok := p.peek(); ok && c == '?' {
			// A fully mangled symbol embedded as a scope component.
			inner, err := p.parse()
			if err != nil {
				return nil, err
			}
			return &ParsedName{Inner: inner}, nil
		}
		if p.consume("$") {
			name, err := p.readTemplateName()
			if err != nil {
				return nil, err
			}
			p.memorizeName(name)
			return name, nil
		}
		if p.consume("A") {
			// Anonymous namespace, optionally tagged with a hex id.
			if p.consume("0x") {
				for p.consumeHexDigit() {
				}
			}
			if err := p.expect("@"); err != nil {
				return nil, err
			}
			return &AnonymousNamespace{}, nil
		}
		n, err := p.readNumber()
		if err != nil {
			return nil, err
		}
		return &Discriminator{Value: n}, nil
	}

	s, err := p.readString()
	if err != nil {
		return nil, err
	}
	name := &Identifier{Raw: s}
	p.memorizeName(name)
	return name, nil
}

// readUnqualifiedName parses the innermost name of a symbol or type.
// function selects the rules for function names, which recognize operator
// escapes and do not memorize their own template names.
func (p *parser) readUnqualifiedName(function bool) (Name, error) {
	orig := p.input

	if d, ok := p.consumeDigit(); ok {
		if int(d) >= len(p.memorizedNames) {
			return nil, p.failAt(orig, ErrBackrefOutOfRange)
		}
		return p.memorizedNames[d], nil
	}

	if p.consume("?$") {
		name, err := p.readTemplateName()
		if err != nil {
			return nil, err
		}
		if !function {
			p.memorizeName(name)
		}
		return name, nil
	}

	if p.consume("?") {
		return p.readOperator()
	}

	s, err := p.readString()
	if err != nil {
		return nil, err
	}
	name := &Identifier{Raw: s}
	p.memorizeName(name)
	return name, nil
}

// readScope reads nested names until the terminating '@'.
func (p *parser) readScope() (NameSequence, error) {
	var names []Name
	for !p.consume("@") {
		name, err := p.readNestedName()
		if err != nil {
			return NameSequence{}, err
		}
		names = append(names, name)
	}
	return NameSequence{Names: names}, nil
}

// readName parses a qualified name of the form A@B@C@@, meaning C::B::A.
func (p *parser) readName(function bool) (Symbol, error) {
	name, err := p.readUnqualifiedName(function)
	if err != nil {
		return Symbol{}, err
	}
	scope, err := p.readScope()
	if err != nil {
		return Symbol{}, err
	}
	return Symbol{Name: name, Scope: scope}, nil
}

func (p *parser) readOperator() (Name, error) {
	spelling, err := p.readOperatorName()
	if err != nil {
		return nil, err
	}
	return &Operator{Spelling: spelling}, nil
}

func (p *parser) readOperatorName() (string, error) {
	orig := p.input

	c, err := p.get()
	if err != nil {
		return "", err
	}
	switch c {
	case '0':
		return opCtor, nil
	case '1':
		return opDtor, nil
	case '2':
		return "operator new", nil
	case '3':
		return "operator delete", nil
	case '4':
		return "operator=", nil
	case '5':
		return "operator>>", nil
	case '6':
		return "operator<<", nil
	case '7':
		return "operator!", nil
	case '8':
		return "operator==", nil
	case '9':
		return "operator!=", nil
	case 'A':
		return "operator[]", nil
	case 'B':
		return "operatorcast", nil
	case 'C':
		return "operator->", nil
	case 'D':
		return "operator*", nil
	case 'E':
		return "operator++", nil
	case 'F':
		return "operator--", nil
	case 'G':
		return "operator-", nil
	case 'H':
		return "operator+", nil
	case 'I':
		return "operator&", nil
	case 'J':
		return "operator->*", nil
	case 'K':
		return "operator/", nil
	case 'L':
		return "operator%", nil
	case 'M':
		return "operator<", nil
	case 'N':
		return "operator<=", nil
	case 'O':
		return "operator>", nil
	case 'P':
		return "operator>=", nil
	case 'Q':
		return "operator,", nil
	case 'R':
		return "operator()", nil
	case 'S':
		return "operator~", nil
	case 'T':
		return "operator^", nil
	case 'U':
		return "operator|", nil
	case 'V':
		return "operator&&", nil
	case 'W':
		return "operator||", nil
	case 'X':
		return "operator*=", nil
	case 'Y':
		return "operator+=", nil
	case 'Z':
		return "operator-=", nil
	case '_':
		c, err = p.get()
		if err != nil {
			return "", err
		}
		switch c {
		case '0':
			return "operator/=", nil
		case '1':
			return "operator%=", nil
		case '2':
			return "operator>>=", nil
		case '3':
			return "operator<<=", nil
		case '4':
			return "operator&=", nil
		case '5':
			return "operator|=", nil
		case '6':
			return "operator^=", nil
		case '7':
			return "`vftable'", nil
		case '8':
			return opVBTable, nil
		case '9':
			return "`vcall'", nil
		case 'A':
			return "`typeof'", nil
		case 'B':
			return "`local static guard'", nil
		case 'D':
			return "`vbase destructor'", nil
		case 'E':
			return "`vector deleting destructor'", nil
		case 'F':
			return "`default constructor closure'", nil
		case 'G':
			return "`scalar deleting destructor'", nil
		case 'H':
			return "`vector constructor iterator'", nil
		case 'I':
			return "`vector destructor iterator'", nil
		case 'J':
			return "`vector vbase constructor iterator'", nil
		case 'K':
			return "`virtual displacement map'", nil
		case 'L':
			return "`eh vector constructor iterator'", nil
		case 'M':
			return "`eh vector destructor iterator'", nil
		case 'N':
			return "`eh vector vbase constructor iterator'", nil
		case 'O':
			return "`copy constructor closure'", nil
		case 'S':
			return "`local vftable'", nil
		case 'T':
			return "`local vftable constructor closure'", nil
		case 'U':
			return "operator new[]", nil
		case 'V':
			return "operator delete[]", nil
		case 'X':
			return "`placement delete closure'", nil
		case 'Y':
			return "`placement delete[] closure'", nil
		case '_':
			if p.consume("L") {
				return " co_await", nil
			}
			if p.consume("K") {
				return " CXXLiteralOperatorName", nil
			}
		}
	}
	return "", p.failAt(orig, ErrUnknownOperator)
}

func (p *parser) readFuncClass(c byte) (FuncClass, error) {
	// Thunks carry a displacement that is encoded but not kept.
	thunk := func(fc FuncClass) (FuncClass, error) {
		if _, err := p.readNumber(); err != nil {
			return 0, err
		}
		return fc | FCThunk, nil
	}

	switch c {
	case 'A':
		return FCPrivate, nil
	case 'B':
		return FCPrivate | FCFar, nil
	case 'C':
		return FCPrivate | FCStatic, nil
	case 'D':
		return FCPrivate | FCStatic, nil
	case 'E':
		return FCPrivate | FCVirtual, nil
	case 'F':
		return FCPrivate | FCVirtual, nil
	case 'G':
		return thunk(FCPrivate | FCVirtual)
	case 'H':
		return thunk(FCPrivate | FCVirtual | FCFar)
	case 'I':
		return FCProtected, nil
	case 'J':
		return FCProtected | FCFar, nil
	case 'K':
		return FCProtected | FCStatic, nil
	case 'L':
		return FCProtected | FCStatic | FCFar, nil
	case 'M':
		return FCProtected | FCVirtual, nil
	case 'N':
		return FCProtected | FCVirtual | FCFar, nil
	case 'O':
		return thunk(FCProtected | FCVirtual)
	case 'P':
		return thunk(FCProtected | FCVirtual | FCFar)
	case 'Q':
		return FCPublic, nil
	case 'R':
		return FCPublic | FCFar, nil
	case 'S':
		return FCPublic | FCStatic, nil
	case 'T':
		return FCPublic | FCStatic | FCFar, nil
	case 'U':
		return FCPublic | FCVirtual, nil
	case 'V':
		return FCPublic | FCVirtual | FCFar, nil
	case 'W':
		return thunk(FCPublic | FCVirtual)
	case 'X':
		return thunk(FCPublic | FCVirtual | FCFar)
	case 'Y':
		return FCGlobal, nil
	case 'Z':
		return FCGlobal | FCFar, nil
	}
	return 0, p.fail(ErrUnknownFuncClass)
}

// readQualifier reads an optional const/volatile qualifier byte.
func (p *parser) readQualifier() StorageClass {
	var quals StorageClass
	switch c, _ := p.peek(); c {
	case 'A':
	case 'B':
		quals = SCConst
	case 'C':
		quals = SCVolatile
	case 'D':
		quals = SCConst | SCVolatile
	default:
		return 0
	}
	p.trim(1)
	return quals
}

func (p *parser) readCallingConv() (CallingConv, error) {
	orig := p.input

	c, err := p.get()
	if err != nil {
		return 0, err
	}
	switch c {
	case 'A', 'B':
		return CCCdecl, nil
	case 'C':
		return CCPascal, nil
	case 'E':
		return CCThiscall, nil
	case 'G':
		return CCStdcall, nil
	case 'I':
		return CCFastcall, nil
	}
	return 0, p.failAt(orig, ErrUnknownCallingConv)
}

// readFuncReturnType handles the structor case:
//
//	<return-type> ::= <type>
//	              ::= @   # structors have no declared return type
func (p *parser) readFuncReturnType(quals StorageClass) (Type, error) {
	if p.consume("@") {
		return &NoType{}, nil
	}
	return p.readVarType(quals)
}

// readStorageClass reads an optional pointee qualifier byte.
func (p *parser) readStorageClass() StorageClass {
	var quals StorageClass
	switch c, _ := p.peek(); c {
	case 'A':
	case 'B':
		quals = SCConst
	case 'C':
		quals = SCVolatile
	case 'D':
		quals = SCConst | SCVolatile
	case 'E':
		quals = SCFar
	case 'F':
		quals = SCConst | SCFar
	case 'G':
		quals = SCVolatile | SCFar
	case 'H':
		quals = SCConst | SCVolatile | SCFar
	default:
		return 0
	}
	p.trim(1)
	return quals
}

// readStorageClassForReturn reads the ?-introduced qualifier preceding a
// return type.
func (p *parser) readStorageClassForReturn() (StorageClass, error) {
	if !p.consume("?") {
		return 0, nil
	}
	orig := p.input

	c, err := p.get()
	if err != nil {
		return 0, err
	}
	switch c {
	case 'A':
		return 0, nil
	case 'B':
		return SCConst, nil
	case 'C':
		return SCVolatile, nil
	case 'D':
		return SCConst | SCVolatile, nil
	}
	return 0, p.failAt(orig, ErrUnknownStorageClass)
}

func (p *parser) readFuncType() (Type, error) {
	cc, err := p.readCallingConv()
	if err != nil {
		return nil, err
	}
	ret, err := p.readVarType(0)
	if err != nil {
		return nil, err
	}
	params, err := p.readFuncParams()
	if err != nil {
		return nil, err
	}
	return &NonMemberFunction{CallConv: cc, Params: params, Return: ret}, nil
}

// readVarType reads one type. sc qualifies the resulting node.
func (p *parser) readVarType(sc StorageClass) (Type, error) {
	if p.consume("W4") {
		sym, err := p.readName(false)
		if err != nil {
			return nil, err
		}
		return &TagType{Kind: TagEnum, Sym: sym, Quals: sc}, nil
	}

	if p.consume("A6") {
		fn, err := p.readFuncType()
		if err != nil {
			return nil, err
		}
		return &Ref{Inner: fn, Quals: sc}, nil
	}

	if p.consume("P6") {
		fn, err := p.readFuncType()
		if err != nil {
			return nil, err
		}
		return &Ptr{Inner: fn, Quals: sc}, nil
	}

	if p.consume("P8") {
		name, err := p.readUnqualifiedName(true)
		if err != nil {
			return nil, err
		}
		if err := p.expect("@"); err != nil {
			return nil, err
		}
		if err := p.expect("E"); err != nil {
			return nil, err
		}
		thisQuals := p.readQualifier()
		if _, err := p.readCallingConv(); err != nil {
			return nil, err
		}
		retQuals, err := p.readStorageClassForReturn()
		if err != nil {
			return nil, err
		}
		ret, err := p.readFuncReturnType(retQuals)
		if err != nil {
			return nil, err
		}
		params, err := p.readFuncParams()
		if err != nil {
			return nil, err
		}
		return &MemberFunctionPointer{
			ClassName: name,
			Params:    params,
			ThisQuals: thisQuals,
			Return:    ret,
		}, nil
	}

	if p.consume("$") {
		if p.consume("0") {
			n, err := p.readNumber()
			if err != nil {
				return nil, err
			}
			return &Constant{Value: n}, nil
		}
		if p.consume("D") {
			n, err := p.readNumber()
			if err != nil {
				return nil, err
			}
			return &TemplateParam{Index: n}, nil
		}
		if p.consume("$BY") {
			return p.readArray()
		}
		if p.consume("$Q") {
			inner, err := p.readPointee()
			if err != nil {
				return nil, err
			}
			return &RValueRef{Inner: inner, Quals: sc}, nil
		}
		if p.consume("$C") {
			// Qualified-this marker; the qualifier lands on whatever
			// type follows.
			sc = p.readQualifier()
		}
		if p.consume("$V") {
			return &EmptyParameterPack{}, nil
		}
		if p.consume("$T") {
			return &NullptrType{}, nil
		}
		if p.consume("$A6") {
			return p.readFuncType()
		}
	}

	if p.consume("?") {
		n, err := p.readNumber()
		if err != nil {
			return nil, err
		}
		return &TemplateParam{Index: -n}, nil
	}

	if d, ok := p.consumeDigit(); ok {
		if int(d) >= len(p.memorizedTypes) {
			return nil, p.fail(ErrBackrefOutOfRange)
		}
		return p.memorizedTypes[d], nil
	}

	orig := p.input

	c, err := p.get()
	if err != nil {
		return nil, err
	}
	switch c {
	case 'T':
		return p.readTagType(TagUnion, sc)
	case 'U':
		return p.readTagType(TagStruct, sc)
	case 'V':
		return p.readTagType(TagClass, sc)
	case 'A':
		inner, err := p.readPointee()
		if err != nil {
			return nil, err
		}
		return &Ref{Inner: inner, Quals: sc}, nil
	case 'B':
		inner, err := p.readPointee()
		if err != nil {
			return nil, err
		}
		return &Ref{Inner: inner, Quals: SCVolatile}, nil
	case 'P':
		inner, err := p.readPointee()
		if err != nil {
			return nil, err
		}
		return &Ptr{Inner: inner, Quals: sc}, nil
	case 'Q':
		inner, err := p.readPointee()
		if err != nil {
			return nil, err
		}
		return &Ptr{Inner: inner, Quals: SCConst}, nil
	case 'R':
		inner, err := p.readPointee()
		if err != nil {
			return nil, err
		}
		return &Ptr{Inner: inner, Quals: SCVolatile}, nil
	case 'S':
		inner, err := p.readPointee()
		if err != nil {
			return nil, err
		}
		return &Ptr{Inner: inner, Quals: SCConst | SCVolatile}, nil
	case 'Y':
		return p.readArray()
	case 'X':
		return &Primitive{Kind: PrimVoid, Quals: sc}, nil
	case 'D':
		return &Primitive{Kind: PrimChar, Quals: sc}, nil
	case 'C':
		return &Primitive{Kind: PrimSChar, Quals: sc}, nil
	case 'E':
		return &Primitive{Kind: PrimUChar, Quals: sc}, nil
	case 'F':
		return &Primitive{Kind: PrimShort, Quals: sc}, nil
	case 'G':
		return &Primitive{Kind: PrimUShort, Quals: sc}, nil
	case 'H':
		return &Primitive{Kind: PrimInt, Quals: sc}, nil
	case 'I':
		return &Primitive{Kind: PrimUInt, Quals: sc}, nil
	case 'J':
		return &Primitive{Kind: PrimLong, Quals: sc}, nil
	case 'K':
		return &Primitive{Kind: PrimULong, Quals: sc}, nil
	case 'M':
		return &Primitive{Kind: PrimFloat, Quals: sc}, nil
	case 'N':
		return &Primitive{Kind: PrimDouble, Quals: sc}, nil
	case 'O':
		return &Primitive{Kind: PrimLongDouble, Quals: sc}, nil
	case '_':
		c, err = p.get()
		if err != nil {
			return nil, err
		}
		switch c {
		case 'N':
			return &Primitive{Kind: PrimBool, Quals: sc}, nil
		case 'J':
			return &Primitive{Kind: PrimInt64, Quals: sc}, nil
		case 'K':
			return &Primitive{Kind: PrimUInt64, Quals: sc}, nil
		case 'W':
			return &Primitive{Kind: PrimWChar, Quals: sc}, nil
		case 'S':
			return &Primitive{Kind: PrimChar16, Quals: sc}, nil
		case 'U':
			return &Primitive{Kind: PrimChar32, Quals: sc}, nil
		}
	}
	return nil, p.failAt(orig, ErrUnknownType)
}

func (p *parser) readTagType(kind TagKind, sc StorageClass) (Type, error) {
	sym, err := p.readName(false)
	if err != nil {
		return nil, err
	}
	return &TagType{Kind: kind, Sym: sym, Quals: sc}, nil
}

func (p *parser) readPointee() (Type, error) {
	p.consume("E") // 64-bit pointer marker
	quals := p.readStorageClass()
	return p.readVarType(quals)
}

// readArray reads a dimension count followed by that many lengths,
// building Array nodes outermost-first.
func (p *parser) readArray() (Type, error) {
	dims, err := p.readNumber()
	if err != nil {
		return nil, err
	}
	if dims <= 0 {
		return nil, p.fail(ErrInvalidDimension)
	}
	arr, _, err := p.readNestedArray(dims)
	return arr, err
}

func (p *parser) readNestedArray(dims int32) (Type, StorageClass, error) {
	if dims > 0 {
		length, err := p.readNumber()
		if err != nil {
			return nil, 0, err
		}
		inner, quals, err := p.readNestedArray(dims - 1)
		if err != nil {
			return nil, 0, err
		}
		return &Array{Len: length, Inner: inner, Quals: quals}, quals, nil
	}

	// The element qualifier follows the lengths and attaches to the
	// innermost dimension only.
	var quals StorageClass
	if p.consume("$$C") {
		switch {
		case p.consume("B"):
			quals = SCConst
		case p.consume("C"), p.consume("D"):
			quals = SCConst | SCVolatile
		case p.consume("A"):
		default:
			return nil, 0, p.fail(ErrUnknownStorageClass)
		}
	}
	elem, err := p.readVarType(0)
	if err != nil {
		return nil, 0, err
	}
	return elem, quals, nil
}

// readParams reads a function or template argument list. The list ends at
// '@', at 'Z' (varargs), or for standalone template manglings at the end
// of input.
func (p *parser) readParams() (Params, error) {
	var types []Type

	for len(p.input) > 0 && p.input[0] != '@' && p.input[0] != 'Z' {
		if d, ok := p.consumeDigit(); ok {
			if int(d) >= len(p.memorizedTypes) {
				return Params{}, p.fail(ErrBackrefOutOfRange)
			}
			types = append(types, p.memorizedTypes[d])
			continue
		}

		before := len(p.input)
		t, err := p.readVarType(0)
		if err != nil {
			return Params{}, err
		}
		// Single-letter codes are not memorized; a back-reference to
		// one would not be any shorter.
		if before-len(p.input) > 1 {
			p.memorizeType(t)
		}
		types = append(types, t)
	}

	switch {
	case p.consume("Z"):
		types = append(types, &VarArgs{})
	case len(p.input) == 0:
		// Standalone template argument lists may stop without a
		// terminator.
	default:
		if err := p.expect("@"); err != nil {
			return Params{}, err
		}
	}
	return Params{Types: types}, nil
}

// readFuncParams reads a function parameter list, where a bare 'X' stands
// for a single void parameter, and the trailing 'Z' is mandatory.
func (p *parser) readFuncParams() (Params, error) {
	var params Params
	if p.consume("X") {
		params = Params{Types: []Type{&Primitive{Kind: PrimVoid}}}
	} else {
		var err error
		params, err = p.readParams()
		if err != nil {
			return Params{}, err
		}
	}
	if err := p.expect("Z"); err != nil {
		return Params{}, err
	}
	return params, nil
}
