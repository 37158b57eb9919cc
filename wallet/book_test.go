package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyswap/XRPL-Custody/ledger"
)

func bookAsset(t *testing.T, currency string) ledger.Asset {
	issuer := issuerAddr
	if ledger.IsNativeCurrency(currency) {
		issuer = ""
	}
	asset, err := ledger.NewAsset(currency, issuer)
	require.NoError(t, err)
	return asset
}

func TestOrderBook(t *testing.T) {
	f := newFixture(t)
	f.ledger.AddOffer(ledger.Offer{Owner: bobAddr, Sequence: 4, TakerGets: mustIssued(t, "TKA", "10"), TakerPays: mustNative(t, "5"), Quality: "500000"})
	f.ledger.AddOffer(ledger.Offer{Owner: aliceAddr, Sequence: 9, TakerGets: mustIssued(t, "TKA", "20"), TakerPays: mustNative(t, "10"), Quality: "500000"})
	f.ledger.AddOffer(ledger.Offer{Owner: carolAddr, Sequence: 2, TakerGets: mustNative(t, "5"), TakerPays: mustIssued(t, "TKA", "10")})

	// selling XRP to buy TKA takes offers that give TKA for XRP
	entries, err := f.wallet.OrderBook(f.ctx, ledger.NativeAsset, bookAsset(t, "TKA"), 0, aliceAddr)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, bobAddr, entry.Owner)
	assert.Equal(t, uint32(4), entry.Sequence)
	assert.Equal(t, AmountView{Currency: "TKA", Issuer: issuerAddr, Value: "10"}, entry.OwnerGives)
	assert.Equal(t, AmountView{Currency: "XRP", Value: "5"}, entry.OwnerWants)
	assert.Equal(t, OfferOpen, entry.Status)

	entries, err = f.wallet.OrderBook(f.ctx, ledger.NativeAsset, bookAsset(t, "TKA"), 0, "")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestIncomingOffers(t *testing.T) {
	f := newFixture(t)
	f.fund(aliceAddr, 100)
	f.ledger.SetLine(aliceAddr, "SOLOGENIC", carolAddr, "1000", "0")
	solo, err := ledger.NewIssued("SOLOGENIC", carolAddr, "3")
	require.NoError(t, err)

	f.ledger.AddOffer(ledger.Offer{Owner: bobAddr, Sequence: 4, TakerGets: mustIssued(t, "TKA", "10"), TakerPays: mustNative(t, "5")})
	f.ledger.AddOffer(ledger.Offer{Owner: bobAddr, Sequence: 5, TakerGets: mustNative(t, "1"), TakerPays: mustIssued(t, "USD", "2")})
	f.ledger.AddOffer(ledger.Offer{Owner: carolAddr, Sequence: 6, TakerGets: solo, TakerPays: mustNative(t, "1")})
	f.ledger.AddOffer(ledger.Offer{Owner: aliceAddr, Sequence: 7, TakerGets: mustIssued(t, "TKB", "1"), TakerPays: mustNative(t, "1")})
	// issued against issued is not scanned
	f.ledger.AddOffer(ledger.Offer{Owner: bobAddr, Sequence: 8, TakerGets: mustIssued(t, "TKA", "1"), TakerPays: mustIssued(t, "TKB", "1")})

	entries, err := f.wallet.IncomingOffers(f.ctx, aliceAddr, 0, 0)
	require.NoError(t, err)
	got := map[uint32]string{}
	for _, e := range entries {
		got[e.Sequence] = e.Owner
	}
	assert.Equal(t, map[uint32]string{4: bobAddr, 5: bobAddr, 6: carolAddr}, got)

	entries, err = f.wallet.IncomingOffers(f.ctx, aliceAddr, 2, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestIncomingOffersSkipsFailedBook(t *testing.T) {
	f := newFixture(t)
	f.fund(aliceAddr, 100)
	f.ledger.AddOffer(ledger.Offer{Owner: bobAddr, Sequence: 4, TakerGets: mustIssued(t, "TKA", "10"), TakerPays: mustNative(t, "5")})
	f.ledger.AddOffer(ledger.Offer{Owner: bobAddr, Sequence: 5, TakerGets: mustNative(t, "1"), TakerPays: mustIssued(t, "USD", "2")})

	f.ledger.FailBook(bookAsset(t, "TKA"), ledger.NativeAsset, ledger.Validation("invalidParams", "bad book"))
	entries, err := f.wallet.IncomingOffers(f.ctx, aliceAddr, 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint32(5), entries[0].Sequence)

	f.ledger.FailBook(bookAsset(t, "TKA"), ledger.NativeAsset, ledger.Network(nil, "book_offers"))
	_, err = f.wallet.IncomingOffers(f.ctx, aliceAddr, 0, 0)
	assert.Equal(t, ledger.KindNetwork, ledger.KindOf(err))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 10, clamp(0, 10, 50))
	assert.Equal(t, 10, clamp(-3, 10, 50))
	assert.Equal(t, 50, clamp(80, 10, 50))
	assert.Equal(t, 7, clamp(7, 10, 50))
}
