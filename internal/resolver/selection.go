package resolver

import (
	"regexp"
	"strings"

	"github.com/standardbeagle/sigfind/internal/types"
)

// selectExport implements §4.6.1: the first export entry on candidate
// that is type-compatible, access-compatible, name-compatible, and whose
// method/property/extends requirements are all satisfied by the entry's
// static shape.
func selectExport(sig *types.NormalizedSignature, candidate *types.Candidate) (*types.Export, bool) {
	if candidate.Metadata == nil {
		return nil, false
	}
	for i := range candidate.Metadata.Exports {
		exp := &candidate.Metadata.Exports[i]
		if exportSatisfies(sig, exp) {
			return exp, true
		}
	}
	return nil, false
}

func exportSatisfies(sig *types.NormalizedSignature, exp *types.Export) bool {
	if !typeTagCompatible(sig.Type, exp.Info.Kind) {
		return false
	}
	if sig.Exports != "" && exp.Access.Kind == types.AccessNamed && exp.Access.Name != sig.Exports {
		return false
	}
	if !nameMatches(sig, exp) {
		return false
	}
	for _, m := range sig.Methods {
		if _, ok := exp.Info.Methods[m]; !ok {
			return false
		}
	}
	for _, p := range sig.Properties {
		if _, ok := exp.Info.Properties[p]; !ok {
			return false
		}
	}
	if sig.Extends != "" && !strings.EqualFold(exp.Info.BaseClass, sig.Extends) {
		return false
	}
	return true
}

func typeTagCompatible(want types.TargetType, have types.ExportKind) bool {
	switch want {
	case "":
		return true
	case types.TargetClass:
		return have == types.ExportClass
	case types.TargetFunction:
		return have == types.ExportFunction
	case types.TargetObject:
		return have == types.ExportObject
	case types.TargetModule:
		return have != types.ExportUnknown
	default:
		return false
	}
}

func nameMatches(sig *types.NormalizedSignature, exp *types.Export) bool {
	if sig.HasNameRegex() {
		return matchesRegex(sig.NameRegex, exp.Access.Name) || matchesRegex(sig.NameRegex, exp.Info.Name)
	}
	if sig.Name == "" {
		return true
	}
	return strings.EqualFold(exp.Access.Name, sig.Name) || strings.EqualFold(exp.Info.Name, sig.Name)
}

func matchesRegex(re *regexp.Regexp, s string) bool {
	return re != nil && s != "" && re.MatchString(s)
}

// validateStructural implements §4.6.2 against the static ExportInfo in
// place of the source's runtime reflection, per SPEC_FULL.md's
// structural-resolution supplement: no value is ever loaded or invoked,
// only its recorded shape is checked.
func validateStructural(sig *types.NormalizedSignature, exp *types.Export, baseClasses map[string]string) bool {
	if !typeTagCompatible(sig.Type, exp.Info.Kind) {
		return false
	}
	if !nameMatches(sig, exp) {
		return false
	}
	for _, m := range sig.Methods {
		if _, ok := exp.Info.Methods[m]; !ok {
			return false
		}
	}
	for _, p := range sig.Properties {
		if _, ok := exp.Info.Properties[p]; !ok {
			return false
		}
	}
	if sig.Extends != "" && !walksToBase(exp.Info.BaseClass, sig.Extends, baseClasses) {
		return false
	}
	if sig.Instanceof != "" && !walksToBase(exp.Info.Name, sig.Instanceof, baseClasses) {
		return false
	}
	return true
}

// walksToBase follows the base-class chain (built from every candidate's
// ClassDeclaration superclass, §4.6 supplement) starting at className,
// looking for target by name.
func walksToBase(className, target string, chain map[string]string) bool {
	seen := map[string]struct{}{}
	current := className
	for current != "" {
		if strings.EqualFold(current, target) {
			return true
		}
		if _, looped := seen[current]; looped {
			return false
		}
		seen[current] = struct{}{}
		next, ok := chain[current]
		if !ok {
			return false
		}
		current = next
	}
	return false
}
