package restyutil

import (
	"fmt"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type DumpOutput interface {
	Write(id string, contents string)
}

// DumpMessages writes every completed request/response pair the client
// makes to output, named by a sequence number. `output` can be nil, in which
// case this is a no-op.
func DumpMessages(client *resty.Client, output DumpOutput) {
	if output == nil {
		return
	}
	var idcounter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := atomic.AddUint64(&idcounter, 1)
		output.Write(fmt.Sprintf("%04d.txt", id), formatHttpMessage(res))
		return nil
	})
}
