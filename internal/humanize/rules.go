package humanize

import (
	"slices"
	"strings"
)

// Replacement maps a banned word or phrase to human alternatives. The first
// alternative is the one substituted; the others are kept for rotation.
type Replacement struct {
	Term         string   `mapstructure:"term" json:"term"`
	Alternatives []string `mapstructure:"alternatives" json:"alternatives"`
}

// Simplification maps a verbose phrase to a shorter one.
type Simplification struct {
	Phrase string `mapstructure:"phrase" json:"phrase"`
	Simple string `mapstructure:"simple" json:"simple"`
}

// Contraction maps a formal two-word form to its contracted form.
type Contraction struct {
	Formal     string
	Contracted string
}

// Tables is the raw rule data a Humanizer is compiled from. Order matters:
// entries of equal length keep their relative order when sorted, and
// contractions are applied exactly in slice order.
type Tables struct {
	Words        []Replacement
	Phrases      []Simplification
	Contractions []Contraction
}

// DefaultTables returns a deep copy of the built-in rule tables.
func DefaultTables() Tables {
	words := make([]Replacement, len(defaultWords))
	for i, w := range defaultWords {
		words[i] = Replacement{Term: w.Term, Alternatives: slices.Clone(w.Alternatives)}
	}
	return Tables{
		Words:        words,
		Phrases:      slices.Clone(defaultPhrases),
		Contractions: slices.Clone(defaultContractions),
	}
}

// Merge returns a copy of t extended with extra. An extra entry whose key
// matches an existing one (case-insensitively) replaces it in place; new keys
// are appended.
func (t Tables) Merge(extra Tables) Tables {
	out := Tables{
		Words:        slices.Clone(t.Words),
		Phrases:      slices.Clone(t.Phrases),
		Contractions: slices.Clone(t.Contractions),
	}

	for _, w := range extra.Words {
		idx := slices.IndexFunc(out.Words, func(e Replacement) bool { return strings.EqualFold(e.Term, w.Term) })
		if idx >= 0 {
			out.Words[idx] = w
		} else {
			out.Words = append(out.Words, w)
		}
	}
	for _, p := range extra.Phrases {
		idx := slices.IndexFunc(out.Phrases, func(e Simplification) bool { return strings.EqualFold(e.Phrase, p.Phrase) })
		if idx >= 0 {
			out.Phrases[idx] = p
		} else {
			out.Phrases = append(out.Phrases, p)
		}
	}
	for _, c := range extra.Contractions {
		idx := slices.IndexFunc(out.Contractions, func(e Contraction) bool { return strings.EqualFold(e.Formal, c.Formal) })
		if idx >= 0 {
			out.Contractions[idx] = c
		} else {
			out.Contractions = append(out.Contractions, c)
		}
	}
	return out
}

var defaultWords = []Replacement{
	// analysis
	{"analysis", []string{"breakdown", "look", "review", "take"}},
	{"analyze", []string{"look at", "break down", "review", "examine"}},
	{"analyzed", []string{"looked at", "reviewed", "examined", "broke down"}},
	{"analyzing", []string{"looking at", "reviewing", "breaking down"}},

	// corporate buzzwords
	{"delve", []string{"dig into", "explore", "get into", "look at"}},
	{"delving", []string{"digging into", "exploring", "getting into"}},
	{"crucial", []string{"key", "important", "big", "major"}},
	{"leverage", []string{"use", "apply", "tap into", "work with"}},
	{"leveraging", []string{"using", "applying", "tapping into"}},
	{"utilize", []string{"use", "apply", "work with"}},
	{"utilizing", []string{"using", "applying", "working with"}},
	{"utilization", []string{"use", "usage"}},
	{"comprehensive", []string{"full", "complete", "thorough", "detailed"}},
	{"robust", []string{"strong", "solid", "reliable"}},
	{"streamline", []string{"simplify", "speed up", "make easier"}},
	{"streamlined", []string{"simplified", "faster", "smoother"}},
	{"optimize", []string{"improve", "make better", "tune"}},
	{"optimizing", []string{"improving", "tuning", "tweaking"}},
	{"optimization", []string{"improvement", "tuning"}},
	{"facilitate", []string{"help", "make easier", "enable"}},
	{"facilitating", []string{"helping", "enabling"}},
	{"implement", []string{"build", "create", "set up", "put in place"}},
	{"implementing", []string{"building", "creating", "setting up"}},
	{"implementation", []string{"setup", "rollout", "execution"}},

	// transitions
	{"furthermore", []string{"also", "plus", "and"}},
	{"moreover", []string{"also", "and", "plus"}},
	{"additionally", []string{"also", "plus", "on top of that"}},
	{"consequently", []string{"so", "as a result", "because of this"}},
	{"nevertheless", []string{"still", "but", "even so"}},
	{"nonetheless", []string{"still", "but", "yet"}},
	{"henceforth", []string{"from now on", "going forward"}},
	{"thereby", []string{"so", "which", "and"}},
	{"wherein", []string{"where", "in which"}},
	{"thereof", []string{"of it", "of this"}},
	{"hereby", []string{"with this", "now"}},

	// fancy words
	{"plethora", []string{"lot", "many", "tons"}},
	{"myriad", []string{"many", "lots of", "countless"}},
	{"multitude", []string{"many", "lots", "bunch"}},
	{"paramount", []string{"key", "top", "most important"}},
	{"pivotal", []string{"key", "critical", "turning point"}},
	{"groundbreaking", []string{"new", "innovative", "fresh"}},
	{"cutting-edge", []string{"latest", "modern", "new"}},
	{"game-changer", []string{"big deal", "major shift", "breakthrough"}},
	{"revolutionary", []string{"new", "innovative", "fresh"}},
	{"transformative", []string{"powerful", "impactful", "major"}},
	{"seamless", []string{"smooth", "easy", "simple"}},
	{"seamlessly", []string{"smoothly", "easily", "naturally"}},
	{"synergy", []string{"teamwork", "collaboration", "working together"}},
	{"paradigm", []string{"model", "approach", "way of thinking"}},
	{"holistic", []string{"complete", "full", "whole"}},
	{"ecosystem", []string{"system", "environment", "space"}},
	{"landscape", []string{"space", "world", "field"}},
	{"realm", []string{"area", "field", "space"}},
	{"sphere", []string{"area", "field", "world"}},

	// stock phrases
	{"it is important to note", []string{"note that", "keep in mind"}},
	{"it's important to note", []string{"note that", "keep in mind"}},
	{"at the end of the day", []string{"ultimately", "in the end"}},
	{"the bottom line is", []string{"basically", "simply put"}},
	{"in today's world", []string{"today", "now", "these days"}},
	{"in the digital age", []string{"today", "now"}},
	{"without further ado", []string{"so", "let's go", "here it is"}},
	{"let's dive in", []string{"let's go", "here we go", "let's get into it"}},
	{"let's delve into", []string{"let's look at", "let's explore"}},
	{"first and foremost", []string{"first", "to start"}},
	{"last but not least", []string{"finally", "and"}},
	{"in conclusion", []string{"so", "to wrap up", "bottom line"}},
	{"to summarize", []string{"so", "in short", "basically"}},
}

var defaultPhrases = []Simplification{
	{"utilize", "use"},
	{"utilization", "use"},
	{"leverage", "use"},
	{"facilitate", "help"},
	{"implement", "do"},
	{"subsequently", "then"},
	{"prior to", "before"},
	{"in order to", "to"},
	{"due to the fact that", "because"},
	{"in the event that", "if"},
	{"at this point in time", "now"},
	{"for the purpose of", "to"},
	{"in spite of the fact", "although"},
	{"on a daily basis", "daily"},
	{"in the near future", "soon"},
	{"a large number of", "many"},
	{"the vast majority of", "most"},
	{"in close proximity to", "near"},
}

var defaultContractions = []Contraction{
	{"do not", "don't"},
	{"does not", "doesn't"},
	{"did not", "didn't"},
	{"will not", "won't"},
	{"would not", "wouldn't"},
	{"could not", "couldn't"},
	{"should not", "shouldn't"},
	{"can not", "can't"},
	{"cannot", "can't"},
	{"is not", "isn't"},
	{"are not", "aren't"},
	{"was not", "wasn't"},
	{"were not", "weren't"},
	{"have not", "haven't"},
	{"has not", "hasn't"},
	{"had not", "hadn't"},
	{"it is", "it's"},
	{"that is", "that's"},
	{"there is", "there's"},
	{"here is", "here's"},
	{"what is", "what's"},
	{"who is", "who's"},
	{"let us", "let's"},
	{"I am", "I'm"},
	{"you are", "you're"},
	{"we are", "we're"},
	{"they are", "they're"},
	{"I will", "I'll"},
	{"you will", "you'll"},
	{"we will", "we'll"},
	{"I would", "I'd"},
	{"you would", "you'd"},
	{"we would", "we'd"},
	{"I have", "I've"},
	{"you have", "you've"},
	{"we have", "we've"},
}
