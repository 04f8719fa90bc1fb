package packet

import "github.com/ndn-go/ndncore/names"

// FullName returns the Data's Name extended with the implicit SHA-256
// digest of the complete wire encoding (spec.md §3 "FullName",
// §4.4 "FullName computation"). It requires the Data to have been signed
// (wire-encoded) already; the result is memoized until the next mutation.
func (d *Data) FullName() (names.Name, error) {
	if d.hasFullName {
		return d.fullName, nil
	}
	if !d.hasWire {
		return nil, ErrNotSigned{}
	}
	wire, err := d.wire.Wire()
	if err != nil {
		return nil, err
	}
	digest := names.FullNameDigest(wire)
	d.fullName = d.NameV.AppendImplicitSha256Digest(digest)
	d.hasFullName = true
	return d.fullName, nil
}
