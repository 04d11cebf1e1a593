package iocli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type Stdio struct {
	in   *bufio.Reader
	out  io.Writer
	file *os.File // file терминал для ввода пароля без эха, nil если ввод не из файла
}

func NewStdio() IO {
	return NewStdioWith(os.Stdin, os.Stdout)
}

// NewStdioWith creates a Stdio over arbitrary streams.
// Password input is read without echo only when in is a terminal.
func NewStdioWith(in io.Reader, out io.Writer) *Stdio {
	s := &Stdio{
		in:  bufio.NewReader(in),
		out: out,
	}
	if f, ok := in.(*os.File); ok {
		s.file = f
	}
	return s
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	return s.readLine()
}

func (s *Stdio) ReadPassword(prompt string) (string, error) {
	s.Printf("%s", prompt)
	if s.file == nil || !term.IsTerminal(int(s.file.Fd())) {
		return s.readLine()
	}

	pwBytes, err := term.ReadPassword(int(s.file.Fd()))
	s.Println("")
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}

// Confirm asks a yes/no question, anything but y/yes means no
func (s *Stdio) Confirm(prompt string) (bool, error) {
	answer, err := s.ReadInput(prompt + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (s *Stdio) readLine() (string, error) {
	input, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
