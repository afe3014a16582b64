package adc

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sweeney/level-sensor/internal/logic"
	"go.bug.st/serial"
)

// requestSample is written to the bridge to trigger one conversion.
const requestSample = "r\n"

// Serial reads counts from a USB-serial bridge that answers each request
// line with one decimal count per line.
type Serial struct {
	port io.ReadWriteCloser
	r    *bufio.Reader
}

// NewSerial opens the named port.
func NewSerial(name string, baudRate int, timeout time.Duration) (*Serial, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	port, err := serial.Open(name, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	if timeout > 0 {
		if err := port.SetReadTimeout(timeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("set read timeout: %w", err)
		}
	}
	return newSerial(port), nil
}

func newSerial(port io.ReadWriteCloser) *Serial {
	return &Serial{port: port, r: bufio.NewReader(port)}
}

// Read requests one sample and parses the reply.
func (s *Serial) Read() (logic.Raw, error) {
	if _, err := io.WriteString(s.port, requestSample); err != nil {
		return 0, fmt.Errorf("request sample: %w", err)
	}
	line, err := s.r.ReadString('\n')
	if err != nil {
		return 0, fmt.Errorf("read sample: %w", err)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(line), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("parse sample %q: %w", strings.TrimSpace(line), err)
	}
	return logic.Raw(v), nil
}

// Close closes the port.
func (s *Serial) Close() error {
	return s.port.Close()
}
