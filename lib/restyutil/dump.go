// Package restyutil records the HTTP exchanges of a resty client, so a
// misbehaving LMS response can be inspected after the fact.
package restyutil

import (
	"fmt"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type Output interface {
	Write(id string, contents string)
}

// DumpExchanges writes every completed request/response pair of client to
// output, ids are zero padded sequence numbers in request order.
func DumpExchanges(client *resty.Client, output Output) {
	var counter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := fmt.Sprintf("%04d", atomic.AddUint64(&counter, 1))
		output.Write(id, formatHttpMessage(res))
		return nil
	})
}
