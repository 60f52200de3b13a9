// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

// QualifiedAddress is an address together with its reachability [Quality].
// Qualified addresses are immutable; WithNewQuality derives an updated copy.
type QualifiedAddress interface {
	Addr() Value
	Qual() Quality
	Err() error // optional details for Invalid.
	QA() QualifiedAddressValue // a copy, without any name.
	WithNewQuality(q Quality, err error) QualifiedAddress
}

// NamedAddress is a [QualifiedAddress] that a particular name resolved into.
// A NamedAddress without a valid address stands for a name that is still
// being resolved, or that failed to resolve when its quality is Invalid.
type NamedAddress interface {
	QualifiedAddress
	Name() string
	NA() NamedAddressValue
}

// QualifiedAddressValue is the plain value form of a [QualifiedAddress].
type QualifiedAddressValue struct {
	Address Value   `json:"-"`
	Quality Quality `json:"quality"`
	err     error
}

var _ QualifiedAddress = (*QualifiedAddressValue)(nil)

// NewQualifiedAddress returns a qualified address with the specified address
// and quality.
func NewQualifiedAddress(addr Value, q Quality) *QualifiedAddressValue {
	return &QualifiedAddressValue{Address: addr, Quality: q}
}

func (qa *QualifiedAddressValue) Addr() Value   { return qa.Address }
func (qa *QualifiedAddressValue) Qual() Quality { return qa.Quality }
func (qa *QualifiedAddressValue) Err() error    { return qa.err }

func (qa *QualifiedAddressValue) QA() QualifiedAddressValue { return *qa }

// WithNewQuality returns a copy of qa with the specified quality and error.
func (qa *QualifiedAddressValue) WithNewQuality(q Quality, err error) QualifiedAddress {
	c := *qa
	c.Quality, c.err = q, err
	return &c
}

// NamedAddressValue is the plain value form of a [NamedAddress].
type NamedAddressValue struct {
	Hostname string `json:"name"` // as queried, "" for the loopback addresses.
	QualifiedAddressValue
}

var _ NamedAddress = (*NamedAddressValue)(nil)

// NewNamedAddress returns the named address for a name and one of the
// addresses it resolved into.
func NewNamedAddress(name string, addr Value, q Quality) *NamedAddressValue {
	return &NamedAddressValue{
		Hostname:              name,
		QualifiedAddressValue: QualifiedAddressValue{Address: addr, Quality: q},
	}
}

// Unresolved returns a named address without any address, for a name still
// being resolved (err is nil), or for a name that failed to resolve.
func Unresolved(name string, err error) *NamedAddressValue {
	na := &NamedAddressValue{Hostname: name}
	if err != nil {
		na.Quality, na.err = Invalid, err
	}
	return na
}

func (na *NamedAddressValue) Name() string { return na.Hostname }

// NA returns a copy of the named address information.
func (na *NamedAddressValue) NA() NamedAddressValue { return *na }

// WithNewQuality returns a copy of na with the specified quality and error,
// keeping the name.
func (na *NamedAddressValue) WithNewQuality(q Quality, err error) QualifiedAddress {
	c := *na
	c.Quality, c.err = q, err
	return &c
}
