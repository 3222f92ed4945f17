package boc

import (
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestBankingPreservesTotalBalance schedules a large number of
// concurrent transfers between a pool of accounts and checks that the
// sum of all balances is unchanged afterward — the 2PL protocol's
// atomicity guarantee means every transfer either hasn't run yet or has
// run to completion, never half-applied.
func TestBankingPreservesTotalBalance(t *testing.T) {
	const numAccounts = 1234
	const numTransfers = 100000
	const startingBalance = int64(1000)

	accounts := make([]*CownPtr[int64], numAccounts)
	for i := range accounts {
		accounts[i] = NewCownPtr(startingBalance)
	}

	rng := rand.New(rand.NewSource(1))
	var remaining atomic.Int64
	remaining.Store(numTransfers)
	done := make(chan struct{})

	for i := 0; i < numTransfers; i++ {
		from := rng.Intn(numAccounts)
		to := rng.Intn(numAccounts)
		for to == from {
			to = rng.Intn(numAccounts)
		}
		amount := int64(rng.Intn(10))

		Run2(accounts[from], accounts[to], func(f, tAcct *int64) {
			*f -= amount
			*tAcct += amount
			if remaining.Add(-1) == 0 {
				close(done)
			}
		})
	}
	<-done

	sumDone := make(chan struct{})
	var total int64
	RunN(accounts, func(values []*int64) {
		for _, v := range values {
			total += *v
		}
		close(sumDone)
	})
	<-sumDone

	assert.Equal(t, startingBalance*int64(numAccounts), total)
}
