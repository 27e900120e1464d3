package depparse

// Relation labels follow the Universal Dependencies naming that CoreNLP and
// UDPipe emit. The vocabulary is open ended: engines may produce subtyped
// labels such as "obl:tmod" or "nmod:poss", and edges carry whatever label
// the engine assigned. The constants below cover the labels this package
// itself produces or that tests reference.

// Core arguments.
const (
	// RelRoot marks an edge from the synthetic super-root to a sentence root.
	RelRoot = "root"

	// RelNSubj is a nominal subject.
	RelNSubj = "nsubj"

	// RelNSubjPass is a passive nominal subject.
	RelNSubjPass = "nsubj:pass"

	// RelObj is a direct object.
	RelObj = "obj"

	// RelIObj is an indirect object.
	RelIObj = "iobj"

	// RelCSubj is a clausal subject.
	RelCSubj = "csubj"

	// RelCComp is a clausal complement.
	RelCComp = "ccomp"

	// RelXComp is an open clausal complement.
	RelXComp = "xcomp"
)

// Nominal and clausal modifiers.
const (
	// RelAMod is an adjectival modifier.
	RelAMod = "amod"

	// RelAdvMod is an adverbial modifier.
	RelAdvMod = "advmod"

	// RelNMod is a nominal modifier.
	RelNMod = "nmod"

	// RelNumMod is a numeric modifier.
	RelNumMod = "nummod"

	// RelACl is an adnominal clause.
	RelACl = "acl"

	// RelAdvCl is an adverbial clause modifier.
	RelAdvCl = "advcl"

	// RelAppos is an appositional modifier.
	RelAppos = "appos"

	// RelCompound is a compound word relation.
	RelCompound = "compound"

	// RelFlat is a flat multiword expression.
	RelFlat = "flat"

	// RelObl is an oblique nominal.
	RelObl = "obl"
)

// Function words and structure.
const (
	// RelAux is an auxiliary verb.
	RelAux = "aux"

	// RelCop is a copula.
	RelCop = "cop"

	// RelCase is a case-marking element.
	RelCase = "case"

	// RelDet is a determiner.
	RelDet = "det"

	// RelMark is a subordinating marker.
	RelMark = "mark"

	// RelCC is a coordinating conjunction.
	RelCC = "cc"

	// RelConj is a conjunct.
	RelConj = "conj"

	// RelExpl is an expletive.
	RelExpl = "expl"

	// RelPunct is punctuation.
	RelPunct = "punct"

	// RelDep is an unspecified dependency.
	RelDep = "dep"
)
