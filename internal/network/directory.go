package network

// Resolver turns a name into a Programmer or a *ProgrammerNotFoundError.
// Every query component resolves names through it.
type Resolver interface {
	Lookup(name string) (*Programmer, error)
}

// Lookup resolves name against the network.
func (n *Network) Lookup(name string) (*Programmer, error) {
	p, ok := n.byName[name]
	if !ok {
		return nil, NotFound(name)
	}
	return p, nil
}

// Skills lists the skills of name in declaration order.
func (n *Network) Skills(name string) ([]string, error) {
	p, err := n.Lookup(name)
	if err != nil {
		return nil, err
	}
	return p.Skills(), nil
}

// Recommendations lists who name recommends, in declaration order.
func (n *Network) Recommendations(name string) ([]string, error) {
	p, err := n.Lookup(name)
	if err != nil {
		return nil, err
	}
	return p.Recommendations(), nil
}

var _ Resolver = (*Network)(nil)
