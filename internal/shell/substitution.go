package shell

import (
	"fmt"
	"os"
)

// resolveSubstitutions walks the token stream, recursively planning and
// launching the sub-pipelines inside `<(...)`/`>(...)`, and returns a flat
// token stream with each substitution replaced by a Word naming the pipe
// fd it should be read from or written to (spec.md §4.3). The recursion
// here plays the role of the stack the spec describes: entering a
// substitution pushes a frame, TokenSubEnd pops it.
//
// retained collects the *os.File ends this call opened so the caller can
// close them once the outer pipeline has been fully reaped — later than
// the spec's "parent never closes before the outer fork" requirement, but
// never earlier, which is the part of the contract that actually matters
// for correctness (see DESIGN.md).
func (l *Launcher) resolveSubstitutions(tokens []Token) (out []Token, retained []*os.File, err error) {
	out, pos, retained, err := l.resolveLevel(tokens, 0, false, nil)
	if err != nil {
		return nil, retained, err
	}
	if pos != len(tokens) {
		return nil, retained, fmt.Errorf("syntax error: unexpected `)'")
	}
	return out, retained, nil
}

func (l *Launcher) resolveLevel(tokens []Token, pos int, nested bool, retained []*os.File) ([]Token, int, []*os.File, error) {
	var out []Token
	for pos < len(tokens) {
		tok := tokens[pos]
		switch tok.Type {
		case TokenSubIn, TokenSubOut:
			inner, next, newRetained, err := l.resolveLevel(tokens, pos+1, true, retained)
			retained = newRetained
			if err != nil {
				return nil, 0, retained, err
			}
			if next >= len(tokens) || tokens[next].Type != TokenSubEnd {
				return nil, 0, retained, fmt.Errorf("unbalanced substitution")
			}
			pathTok, kept, err := l.spawnSubstitution(inner, tok.Type)
			if err != nil {
				return nil, 0, retained, err
			}
			retained = append(retained, kept)
			out = append(out, pathTok)
			pos = next + 1
		case TokenSubEnd:
			if !nested {
				return nil, 0, retained, fmt.Errorf("syntax error: unexpected `)'")
			}
			return out, pos, retained, nil
		default:
			out = append(out, tok)
			pos++
		}
	}
	if nested {
		return nil, 0, retained, fmt.Errorf("unbalanced substitution")
	}
	return out, pos, retained, nil
}

// spawnSubstitution creates the anonymous pipe for one `<(...)`/`>(...)`,
// launches its inner pipeline untracked by the job table (it is not a job
// a user can bg/fg — only the outer command is), and returns the emitted
// path token plus the end the shell must keep open.
func (l *Launcher) spawnSubstitution(inner []Token, dir TokenType) (Token, *os.File, error) {
	plan, err := PlanPipeline(inner)
	if err != nil {
		return Token{}, nil, err
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return Token{}, nil, fmt.Errorf("process substitution: %w", err)
	}

	var childEnd, parentEnd *os.File
	if dir == TokenSubIn {
		// <(cmd): cmd writes, the outer command reads the retained end.
		childEnd, parentEnd = pw, pr
	} else {
		// >(cmd): cmd reads, the outer command writes the retained end.
		childEnd, parentEnd = pr, pw
	}

	if _, err := l.spawnDetached(plan, dir, childEnd); err != nil {
		childEnd.Close()
		parentEnd.Close()
		return Token{}, nil, err
	}
	childEnd.Close()

	path := fmt.Sprintf("/proc/%d/fd/%d", os.Getpid(), int(parentEnd.Fd()))
	return Token{Value: path, Type: TokenWord}, parentEnd, nil
}
