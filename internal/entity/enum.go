package entity

// NextEnumValue computes the auto-assigned value for an enum entry with
// no explicit initializer: max-used + 1, skipping any value already used
// by an earlier entry.
func NextEnumValue(used map[int64]bool, maxUsed int64) int64 {
	v := maxUsed + 1
	for used[v] {
		v++
	}
	return v
}

// CheckEnumUniqueness verifies no two entries of an enum share a numeric
// value.
func CheckEnumUniqueness(a *Arena, enumHandle Handle) error {
	seen := map[int64]Handle{}
	for _, c := range a.Children(enumHandle) {
		entry, ok := a.Get(c).(*EnumEntry)
		if !ok {
			continue
		}
		if prev, exists := seen[entry.NumericValue]; exists {
			return &DuplicateEnumValueError{
				Enum:     a.ScopedName(enumHandle),
				Value:    entry.NumericValue,
				First:    a.ScopedName(prev),
				Second:   a.ScopedName(c),
			}
		}
		seen[entry.NumericValue] = c
	}
	return nil
}

// DuplicateEnumValueError reports two enum entries sharing a value.
type DuplicateEnumValueError struct {
	Enum           string
	Value          int64
	First, Second  string
}

func (e *DuplicateEnumValueError) Error() string {
	return e.Enum + ": entries " + e.First + " and " + e.Second + " both have value " + itoa(e.Value)
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [24]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
