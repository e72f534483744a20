package pipeline

// Scope is what the user asked for on the command line.
type Scope struct {
	All     bool
	Docs    bool
	Lessons bool
	Packets bool
	Lesson  int // single lesson number, 0 for none
}

// Stages is the set of stages a run executes.
type Stages struct {
	Docs    bool
	Lessons bool
	Packets bool
	Lesson  int // restricts the lessons stage to one lesson when positive
}

// Stages resolves which stages run. No flags means everything. Packets
// always regenerate docs and lessons first since assembly reads their PDFs.
func (s Scope) Stages() Stages {
	all := s.All || (!s.Docs && !s.Lessons && !s.Packets && s.Lesson <= 0)
	return Stages{
		Docs:    all || s.Docs || s.Packets,
		Lessons: all || s.Lessons || s.Lesson > 0 || s.Packets,
		Packets: all || s.Packets,
		Lesson:  max(s.Lesson, 0),
	}
}

// Names lists the enabled stages in execution order.
func (st Stages) Names() []string {
	var names []string
	if st.Docs {
		names = append(names, "docs")
	}
	if st.Lessons {
		names = append(names, "lessons")
	}
	if st.Packets {
		names = append(names, "packets")
	}
	return names
}
