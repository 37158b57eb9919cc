package keystore

import (
	"context"
	"errors"
	"testing"

	"gopkg.in/check.v1"

	"github.com/anyswap/XRPL-Custody/ledger"
)

func Test(t *testing.T) { check.TestingT(t) }

type KeystoreSuite struct {
	dir string
	ks  *Keystore
}

var _ = check.Suite(&KeystoreSuite{})

const (
	aliceAddress = "rNDKeo9RrCiRdfsMG8AdoZvNZxHASGzbZL"
	aliceSeed    = "sn3nxiW7v8KXzPzAqzyHXbSSKNuN9"
)

func (s *KeystoreSuite) SetUpSuite(c *check.C) {
	ScryptN = 1 << 10
}

func (s *KeystoreSuite) SetUpTest(c *check.C) {
	s.dir = c.MkDir()
	ks, err := Open(s.dir, "correct horse")
	c.Assert(err, check.IsNil)
	s.ks = ks
}

func (s *KeystoreSuite) TearDownTest(c *check.C) {
	c.Assert(s.ks.Close(), check.IsNil)
}

func (s *KeystoreSuite) TestStoreAndLoad(c *check.C) {
	c.Assert(s.ks.Store("Alice", aliceAddress, aliceSeed), check.IsNil)

	cred, err := s.ks.Load(" alice ")
	c.Assert(err, check.IsNil)
	c.Assert(cred.Label(), check.Equals, "alice")
	c.Assert(cred.Address(), check.Equals, aliceAddress)
	c.Assert(cred.Seed(), check.Equals, aliceSeed)

	cred.Wipe()
	c.Assert(cred.Seed(), check.Equals, "")

	addr, err := s.ks.Address("alice")
	c.Assert(err, check.IsNil)
	c.Assert(addr, check.Equals, aliceAddress)

	labels, err := s.ks.Labels()
	c.Assert(err, check.IsNil)
	c.Assert(labels, check.DeepEquals, []string{"alice"})
}

func (s *KeystoreSuite) TestDuplicateAndMissing(c *check.C) {
	c.Assert(s.ks.Store("alice", aliceAddress, aliceSeed), check.IsNil)
	err := s.ks.Store("ALICE", aliceAddress, aliceSeed)
	c.Assert(errors.Is(err, ErrExists), check.Equals, true)

	_, err = s.ks.Load("bob")
	c.Assert(errors.Is(err, ErrNotFound), check.Equals, true)

	c.Assert(s.ks.Delete("alice"), check.IsNil)
	_, err = s.ks.Load("alice")
	c.Assert(errors.Is(err, ErrNotFound), check.Equals, true)
}

func (s *KeystoreSuite) TestWrongPassphrase(c *check.C) {
	c.Assert(s.ks.Store("alice", aliceAddress, aliceSeed), check.IsNil)
	c.Assert(s.ks.Close(), check.IsNil)

	other, err := Open(s.dir, "wrong horse")
	c.Assert(err, check.IsNil)
	_, err = other.Load("alice")
	c.Assert(err, check.Equals, ErrWrongPassphrase)
	c.Assert(other.Close(), check.IsNil)

	s.ks, err = Open(s.dir, "correct horse")
	c.Assert(err, check.IsNil)
}

func (s *KeystoreSuite) TestStoreValidation(c *check.C) {
	err := s.ks.Store("", aliceAddress, aliceSeed)
	c.Assert(ledger.CodeOf(err), check.Equals, "missing_label")
	err = s.ks.Store("alice", "bad", aliceSeed)
	c.Assert(ledger.CodeOf(err), check.Equals, "bad_address")
	err = s.ks.Store("alice", aliceAddress, "")
	c.Assert(ledger.CodeOf(err), check.Equals, "missing_seed")

	_, err = Open(c.MkDir(), "")
	c.Assert(err, check.Equals, ErrEmptyPassphrase)
}

type seedTable map[string]string

func (t seedTable) DeriveAddress(ctx context.Context, seed string) (string, error) {
	addr, ok := t[seed]
	if !ok {
		return "", ledger.Validation("badSeed", "unknown seed")
	}
	return addr, nil
}

const bobAddress = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"

func (s *KeystoreSuite) TestImportDerivesAddress(c *check.C) {
	deriver := seedTable{aliceSeed: aliceAddress}

	addr, err := s.ks.Import(context.Background(), deriver, "alice", aliceSeed, "")
	c.Assert(err, check.IsNil)
	c.Assert(addr, check.Equals, aliceAddress)

	stored, err := s.ks.Address("alice")
	c.Assert(err, check.IsNil)
	c.Assert(stored, check.Equals, aliceAddress)

	addr, err = s.ks.Import(context.Background(), deriver, "alice2", aliceSeed, aliceAddress)
	c.Assert(err, check.IsNil)
	c.Assert(addr, check.Equals, aliceAddress)
}

func (s *KeystoreSuite) TestImportRejectsMismatch(c *check.C) {
	deriver := seedTable{aliceSeed: aliceAddress}

	_, err := s.ks.Import(context.Background(), deriver, "alice", aliceSeed, bobAddress)
	c.Assert(errors.Is(err, ErrAddressMismatch), check.Equals, true)
	_, err = s.ks.Load("alice")
	c.Assert(errors.Is(err, ErrNotFound), check.Equals, true)

	_, err = s.ks.Import(context.Background(), deriver, "alice", "sUnknown", "")
	c.Assert(ledger.CodeOf(err), check.Equals, "badSeed")
	_, err = s.ks.Import(context.Background(), deriver, "alice", "", "")
	c.Assert(ledger.CodeOf(err), check.Equals, "missing_seed")
}
