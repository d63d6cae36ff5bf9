package pattern

// The AST mirrors the §4.2.2 grammar one node per production, kept small
// enough that compile.go can lower it in a single recursive pass with no
// separate optimization stage of its own (optimization is the fsa
// package's job, via Determinize/Minimize).

// node is the common interface every AST node satisfies. It carries no
// behavior of its own — compile.go type-switches on the concrete types.
type node interface{ astNode() }

// union is Expr: Branch ('|' Branch)*.
type union struct {
	branches []node
}

// intersection is Branch: Factor ('&' Factor)*.
type intersection struct {
	factors []node
}

// concat is Factor: Piece*.
type concat struct {
	pieces []node
}

// piece is Atom with an optional quantifier.
type piece struct {
	atom node
	quant quantifier
}

// quantifier bounds a piece's repetition count. noQuantifier means "exactly
// one", distinguished from {1,1} only for readability; both compile
// identically.
type quantifier struct {
	present bool
	min     int
	max     int // -1 means unbounded
}

var noQuantifier = quantifier{}

// quoted is '"' Expr '"': suppresses implicit space for everything nested
// inside it.
type quoted struct {
	inner node
}

// group is '(' Expr ')': a parenthesized sub-expression with no semantic
// effect beyond precedence — kept as its own node only so compile.go's
// switch reads the same shape as the grammar.
type group struct {
	inner node
}

// charClass is a single-byte atom: a literal byte or a named class,
// expanded to a set of byte ranges during parsing (parsing already knows
// the alphabet, so there is no separate "resolve class" pass).
type charClass struct {
	ranges [][2]byte
}

// bracketClass is '[' '^'? CharClass+ ']'.
type bracketClass struct {
	ranges  [][2]byte
	negate  bool
}

// anagram is '<' Piece* '>' (see pattern/parse.go for why this reuses the
// ordinary Piece production instead of inventing a separate grammar).
type anagram struct {
	pieces []node
}

func (union) astNode()        {}
func (intersection) astNode() {}
func (concat) astNode()       {}
func (piece) astNode()        {}
func (quoted) astNode()       {}
func (group) astNode()        {}
func (charClass) astNode()    {}
func (bracketClass) astNode() {}
func (anagram) astNode()      {}
