package goemitter

import (
	"bytes"
	"fmt"
)

// writeResponseHandling emits the send, status check and decode steps. Every
// failure returns the zero result with the runtime's typed error.
func writeResponseHandling(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "\tresp, err := req.Send(%s, c.client, c.timeout)\n", ctxParam)
	writeErrReturn(buf)
	buf.WriteString("\tif err := resp.CheckStatus(); err != nil {\n")
	buf.WriteString("\t\treturn result, err\n")
	buf.WriteString("\t}\n")
	buf.WriteString("\tif err := resp.Decode(&result); err != nil {\n")
	buf.WriteString("\t\treturn result, err\n")
	buf.WriteString("\t}\n")
	buf.WriteString("\treturn result, nil\n")
}
