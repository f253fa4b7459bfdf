package sbx

import (
	"context"
	"io"
	"sync"
)

// ChunkFunc receives an incremental slice of diff output.
type ChunkFunc func(text string)

// DoneFunc receives the process exit code once the stream closes. A spawn
// failure is reported as exit code -1.
type DoneFunc func(exitCode int)

// StreamDiff runs `diff <patterns...>` and streams stdout and stderr
// chunks to onChunk as they arrive, without buffering the full output.
// It never fails synchronously: spawn problems surface through onDone.
// The sinks are called from background goroutines.
func (c *Client) StreamDiff(ctx context.Context, dir string, patterns []string, onChunk ChunkFunc, onDone DoneFunc) {
	cmd := c.command(ctx, dir, append([]string{"diff"}, patterns...)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		c.log.Error("diff: failed to create stdout pipe: %v", err)
		go onDone(-1)
		return
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		c.log.Error("diff: failed to create stderr pipe: %v", err)
		go onDone(-1)
		return
	}

	if err := cmd.Start(); err != nil {
		c.log.Error("diff: failed to start: %v", err)
		go func() {
			onChunk(Hint(err) + "\n")
			onDone(-1)
		}()
		return
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go c.readChunks(stdout, onChunk, &wg)
	go c.readChunks(stderr, onChunk, &wg)

	go func() {
		wg.Wait()
		err := cmd.Wait()
		exitCode := 0
		if err != nil {
			exitCode = cmd.ProcessState.ExitCode()
		}
		c.log.Debug("diff: stream closed with exit code %d", exitCode)
		onDone(exitCode)
	}()
}

func (c *Client) readChunks(r io.Reader, onChunk ChunkFunc, wg *sync.WaitGroup) {
	defer wg.Done()
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			onChunk(string(buf[:n]))
		}
		if err != nil {
			return
		}
	}
}
