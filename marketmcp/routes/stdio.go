package routes

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"marketmcp/marketmcp/controllers"
	"marketmcp/marketmcp/utils/jsonutils"
	"marketmcp/marketmcp/utils/logging"
	"marketmcp/marketmcp/utils/types"

	"go.uber.org/zap"
)

// MaxLineBytes bounds one request line. HTML travels inside params, so it is generous.
const MaxLineBytes = 16 << 20

// ServeStdio answers each non-blank line of in with exactly one line on out,
// in order, until EOF. Request errors become error envelopes; only I/O
// failures end the loop.
func ServeStdio(ctx context.Context, ctrl *controllers.ToolsController, in io.Reader, out io.Writer) error {
	reader := bufio.NewReaderSize(in, 64<<10)
	writer := bufio.NewWriter(out)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, tooLong, err := readLine(reader, MaxLineBytes)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read request: %w", err)
		}

		var resp types.Response
		if tooLong {
			resp = types.Response{Error: fmt.Sprintf("invalid request: line exceeds %d bytes", MaxLineBytes)}
		} else {
			line = bytes.TrimSpace(line)
			if len(line) == 0 {
				continue
			}
			resp = ctrl.Handle(ctx, line)
		}

		if err := writeResponse(writer, resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
}

// readLine returns the next line without its terminator. Lines over limit are
// consumed and dropped with tooLong set.
func readLine(r *bufio.Reader, limit int) (line []byte, tooLong bool, err error) {
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			return nil, false, err
		}
		if !tooLong {
			if len(line)+len(chunk) > limit {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		if !isPrefix {
			return line, tooLong, nil
		}
	}
}

func writeResponse(w *bufio.Writer, resp types.Response) error {
	data, err := jsonutils.Marshal(resp)
	if err != nil {
		logging.ErrorLogger.Error("encode response", zap.Error(err))
		data, _ = jsonutils.Marshal(types.Response{Error: err.Error()})
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return w.Flush()
}
