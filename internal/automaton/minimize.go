package automaton

import (
	"sort"
	"strconv"
	"strings"
)

// Minimize removes unreachable states, then partition-refines the
// remainder by (polarity, head-signature), splitting classes further
// on their transition targets' classes until no class splits any more
// — the fixed point is the minimal DFA-equivalent automaton.
func Minimize(a *Automaton) *Automaton {
	reachable := reachableFrom(a, a.Start)
	class := initialPartition(a, reachable)
	for {
		next, changed := refine(a, reachable, class)
		class = next
		if !changed {
			break
		}
	}
	return rebuild(a, reachable, class)
}

func reachableFrom(a *Automaton, start int) map[int]bool {
	seen := map[int]bool{}
	var walk func(int)
	walk = func(id int) {
		if seen[id] {
			return
		}
		seen[id] = true
		st := a.States[id]
		for _, p := range st.Params {
			walk(p)
		}
		if st.Return != -1 {
			walk(st.Return)
		}
		if st.Element != -1 {
			walk(st.Element)
		}
		for _, fid := range st.Fields {
			walk(fid)
		}
	}
	walk(start)
	return seen
}

// signature is a state's transition-independent fingerprint: polarity,
// head set, literal refinement, class/var identity and field-name set.
// Two states with different signatures can never end up in the same
// equivalence class; two states with the same signature start in the
// same class and are split apart only if their transitions diverge.
func signature(st *State) string {
	heads := make([]string, 0, len(st.Heads))
	for h := range st.Heads {
		heads = append(heads, h.String())
	}
	sort.Strings(heads)
	var b strings.Builder
	b.WriteString(st.Polarity.String())
	b.WriteByte('|')
	b.WriteString(strings.Join(heads, ","))
	if st.IsLiteral {
		b.WriteString("|lit:")
		b.WriteString(st.LiteralBase)
		b.WriteString(":")
		fmtLiteral(&b, st.LiteralValue)
	}
	if st.ClassName != "" {
		b.WriteString("|class:")
		b.WriteString(st.ClassName)
	}
	if st.Heads[HeadVar] {
		b.WriteString("|var:")
		b.WriteString(strconv.FormatInt(st.VarID, 10))
	}
	b.WriteString("|params:")
	b.WriteString(strconv.Itoa(len(st.Params)))
	b.WriteString("|return:")
	b.WriteString(strconv.FormatBool(st.Return != -1))
	b.WriteString("|element:")
	b.WriteString(strconv.FormatBool(st.Element != -1))
	fields := sortedKeys(st.Fields)
	b.WriteString("|fields:")
	b.WriteString(strings.Join(fields, ","))
	return b.String()
}

func fmtLiteral(b *strings.Builder, v any) {
	switch lit := v.(type) {
	case string:
		b.WriteString(strconv.Quote(lit))
	case bool:
		b.WriteString(strconv.FormatBool(lit))
	case float64:
		b.WriteString(strconv.FormatFloat(lit, 'g', -1, 64))
	default:
		b.WriteString("?")
	}
}

func initialPartition(a *Automaton, reachable map[int]bool) map[int]int {
	sigToClass := map[string]int{}
	class := map[int]int{}
	for id := range reachable {
		sig := signature(a.States[id])
		c, ok := sigToClass[sig]
		if !ok {
			c = len(sigToClass)
			sigToClass[sig] = c
		}
		class[id] = c
	}
	return class
}

// refine splits every class whose members disagree on the class of
// any transition target, returning the new (possibly finer) partition
// and whether anything changed this round.
func refine(a *Automaton, reachable map[int]bool, class map[int]int) (map[int]int, bool) {
	type key struct {
		class int
		sig   string
	}
	fingerprint := func(id int) string {
		st := a.States[id]
		var b strings.Builder
		for _, p := range st.Params {
			b.WriteString("d")
			b.WriteString(strconv.Itoa(class[p]))
			b.WriteByte(',')
		}
		if st.Return != -1 {
			b.WriteString("r")
			b.WriteString(strconv.Itoa(class[st.Return]))
		}
		if st.Element != -1 {
			b.WriteString("e")
			b.WriteString(strconv.Itoa(class[st.Element]))
		}
		for _, name := range sortedKeys(st.Fields) {
			b.WriteString("f:")
			b.WriteString(name)
			b.WriteString("=")
			b.WriteString(strconv.Itoa(class[st.Fields[name]]))
			b.WriteByte(',')
		}
		return b.String()
	}

	groups := map[key][]int{}
	for id := range reachable {
		k := key{class: class[id], sig: fingerprint(id)}
		groups[k] = append(groups[k], id)
	}

	// Stable reassignment: sort keys so class numbering doesn't depend
	// on map iteration order between runs.
	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].class != keys[j].class {
			return keys[i].class < keys[j].class
		}
		return keys[i].sig < keys[j].sig
	})

	next := map[int]int{}
	changed := false
	oldClassCount := map[int]int{}
	for _, c := range class {
		oldClassCount[c]++
	}
	seenOld := map[int]bool{}
	for newClass, k := range keys {
		for _, id := range groups[k] {
			next[id] = newClass
		}
		if len(groups[k]) != oldClassCount[k.class] || seenOld[k.class] {
			changed = true
		}
		seenOld[k.class] = true
	}
	return next, changed
}

// rebuild emits one state per surviving equivalence class, using the
// lowest-ID member of each class as its representative, with every
// transition rewritten to point at representatives instead of original
// state IDs.
func rebuild(a *Automaton, reachable map[int]bool, class map[int]int) *Automaton {
	classMembers := map[int][]int{}
	for id := range reachable {
		c := class[id]
		classMembers[c] = append(classMembers[c], id)
	}
	repOf := map[int]int{} // class -> representative original id
	for c, members := range classMembers {
		sort.Ints(members)
		repOf[c] = members[0]
	}

	classes := make([]int, 0, len(classMembers))
	for c := range classMembers {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	newIDOf := map[int]int{} // class -> new state id
	states := make([]*State, len(classes))
	for newID, c := range classes {
		newIDOf[c] = newID
	}
	for newID, c := range classes {
		orig := a.States[repOf[c]]
		st := &State{
			ID:            newID,
			Polarity:      orig.Polarity,
			Heads:         copyHeads(orig.Heads),
			IsLiteral:     orig.IsLiteral,
			LiteralBase:   orig.LiteralBase,
			LiteralValue:  orig.LiteralValue,
			ClassName:     orig.ClassName,
			VarID:         orig.VarID,
			VarName:       orig.VarName,
			Return:        -1,
			Element:       -1,
		}
		if orig.Return != -1 {
			st.Return = newIDOf[class[orig.Return]]
		}
		if orig.Element != -1 {
			st.Element = newIDOf[class[orig.Element]]
		}
		if len(orig.Params) > 0 {
			st.Params = make([]int, len(orig.Params))
			for i, p := range orig.Params {
				st.Params[i] = newIDOf[class[p]]
			}
		}
		if len(orig.Fields) > 0 {
			st.Fields = map[string]int{}
			st.FieldOptional = map[string]bool{}
			for name, fid := range orig.Fields {
				st.Fields[name] = newIDOf[class[fid]]
				st.FieldOptional[name] = orig.FieldOptional[name]
			}
		}
		states[newID] = st
	}

	return &Automaton{States: states, Start: newIDOf[class[a.Start]]}
}

func copyHeads(h map[Head]bool) map[Head]bool {
	out := make(map[Head]bool, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
