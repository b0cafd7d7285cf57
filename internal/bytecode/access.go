package bytecode

// Access is a JVM access_flags bitmask, shared by classes, fields, and methods.
type Access uint16

const (
	AccPublic       Access = 0x0001
	AccPrivate      Access = 0x0002
	AccProtected    Access = 0x0004
	AccStatic       Access = 0x0008
	AccFinal        Access = 0x0010
	AccSuper        Access = 0x0020
	AccSynchronized Access = 0x0020
	AccVolatile     Access = 0x0040
	AccBridge       Access = 0x0040
	AccTransient    Access = 0x0080
	AccVarargs      Access = 0x0080
	AccNative       Access = 0x0100
	AccInterface    Access = 0x0200
	AccAbstract     Access = 0x0400
	AccStrict       Access = 0x0800
	AccSynthetic    Access = 0x1000
	AccAnnotation   Access = 0x2000
	AccEnum         Access = 0x4000
)

func (a Access) Has(flag Access) bool { return a&flag != 0 }

func (a Access) IsPublic() bool    { return a.Has(AccPublic) }
func (a Access) IsPrivate() bool   { return a.Has(AccPrivate) }
func (a Access) IsProtected() bool { return a.Has(AccProtected) }
func (a Access) IsStatic() bool    { return a.Has(AccStatic) }
func (a Access) IsFinal() bool     { return a.Has(AccFinal) }
func (a Access) IsAbstract() bool  { return a.Has(AccAbstract) }
func (a Access) IsInterface() bool { return a.Has(AccInterface) }
func (a Access) IsEnum() bool      { return a.Has(AccEnum) }
func (a Access) IsSynthetic() bool { return a.Has(AccSynthetic) }

// Visibility derives a single coarse visibility label from the bitmask,
// defaulting to package-private when none of the three flags are set.
func (a Access) Visibility() string {
	switch {
	case a.IsPublic():
		return "public"
	case a.IsProtected():
		return "protected"
	case a.IsPrivate():
		return "private"
	default:
		return "package-private"
	}
}
