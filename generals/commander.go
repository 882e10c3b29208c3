package generals

// Commander is the distinguished participant that originates the order.
type Commander struct {
	id     ID
	faults *FaultModel
}

// NewCommander constructs the commander for a run.
func NewCommander(faults *FaultModel) *Commander {
	return &Commander{id: CommanderID, faults: faults}
}

// IssueOrder performs round 0: it sends order to every lieutenant through
// the fault model. A loyal commander broadcasts the true order; a traitorous
// one sends whatever its strategy chooses per recipient. The effect is fully
// observable through the lieutenants' message logs.
func (c *Commander) IssueOrder(order Order, lieutenants []ID, tr Transport) error {
	msg := Message{Path: Path{c.id}, Value: order}
	if c.faults.IsLoyal(c.id) {
		return tr.Broadcast(c.id, lieutenants, msg)
	}
	for _, to := range lieutenants {
		msg.Value = c.faults.ValueToSend(c.id, to, 0, order)
		if err := tr.Send(c.id, to, msg); err != nil {
			return err
		}
	}
	return nil
}
