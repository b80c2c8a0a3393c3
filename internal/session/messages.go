package session

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Flavor templates for the submitter-facing narration. Template choice is
// cosmetic and never feeds back into persisted numbers.

var excuseTemplates = []string{
	"I met a really nice goat \U0001F410",
	"I just came across a fruit tree \U0001F34E",
	"I lost data connection",
	"I met some really nice people \U0001F9D1",
	"my phone just ran out of battery \U0001F4F5",
	"I was just stopped by the police \U0001F46E",
}

var fastTemplates = []string{
	"I went downhill",
	"I had a dog chase me \U0001F415",
	"I have really strong tailwind \U0001F32C",
	"I am on a ferry \U000026F4 (check my location to see if I am on water)",
	"I just fueled up with a really good meal \U0001F959",
	"I am on a sugar high \U0001F369",
}

var slowTemplates = []string{
	"I am really demotivated today",
	"I am going uphill \U0001F6B5",
	"I have really strong headwind (check the weather info I sent you to see if this could be the reason)",
	"I am cycling on really bad terrain (check the map I sent you to see if I was riding on a bad road)",
	"I have really bad weather (check the weather info I sent you to see if this could be the reason)",
}

var normalTemplates = []string{
	"This is approximately my average speed",
	"I didn't go super fast, but I also didn't go slow either",
	"Try sending me really energizing songs to make me go faster next time",
}

// TemplatePicker chooses one of N templates per category. The index source
// is injectable so tests can pin the choice.
type TemplatePicker struct {
	intn func(n int) int
}

func NewTemplatePicker(intn func(n int) int) TemplatePicker {
	if intn == nil {
		intn = rand.IntN
	}
	return TemplatePicker{intn: intn}
}

func (p TemplatePicker) Excuse() string       { return p.pick(excuseTemplates) }
func (p TemplatePicker) FastReason() string   { return p.pick(fastTemplates) }
func (p TemplatePicker) SlowReason() string   { return p.pick(slowTemplates) }
func (p TemplatePicker) NormalPhrase() string { return p.pick(normalTemplates) }

func (p TemplatePicker) pick(templates []string) string {
	return templates[p.intn(len(templates))]
}

func minutesSeconds(d time.Duration) (int, int) {
	total := int(d / time.Second)
	return (total / 60) % 60, total % 60
}

func listenSummary(listened, trackLength time.Duration, verdict ListenVerdict, picker TemplatePicker) string {
	listenedMin, listenedSec := minutesSeconds(listened)
	trackMin, trackSec := minutesSeconds(trackLength)

	text := fmt.Sprintf("I listened to your song for %d minutes %d seconds. ", listenedMin, listenedSec)
	switch verdict {
	case ListenPartial:
		text += fmt.Sprintf(
			"Seems like I didn't listen to the whole song (the song you sent me is actually %dmins %dsecs long). "+
				"A possible explanation is that I didn't like it. But that is not the only possibility! "+
				"Maybe I stopped listening to it because %s. I am just saying, let's not jump to conclusions. ",
			trackMin, trackSec, picker.Excuse())
	case ListenFull:
		text += "Seems like I liked your song, since I listened to the whole thing. "
	case ListenResumed:
		text += fmt.Sprintf(
			"I must have paused your song in the middle for a while since your song is only %dmins %dsecs long. ",
			trackMin, trackSec)
	}
	return text
}

func speedSummary(distanceKm, speedKmh, baselineKmh float64, verdict SpeedVerdict, picker TemplatePicker) string {
	text := fmt.Sprintf(
		"Your song has accompanied me for a total distance of %vkm! Thank you so much. "+
			"While listening to your song I had an average speed of %vkm/h. ",
		distanceKm, speedKmh)
	switch verdict {
	case SpeedFast:
		text += fmt.Sprintf(
			"Wow, I went super fast during your song (my average speed is usually around %vkm/h)! "+
				"Maybe %s, or your song gave me a boost of energy \U0001F50B.",
			baselineKmh, picker.FastReason())
	case SpeedNormal:
		text += fmt.Sprintf(
			"I had a really nice cruising speed while listening to your song. %s.",
			picker.NormalPhrase())
	case SpeedSlow:
		text += fmt.Sprintf(
			"I went kind of slow during your song. But oh well. It's not all about speed, right? "+
				"Maybe I didn't cover a lot of distance because %s. "+
				"I will try my best to ride faster during the next song you send me!",
			picker.SlowReason())
	case SpeedUnknown:
		text += "The window was too short to work out a meaningful speed."
	}
	return text
}
