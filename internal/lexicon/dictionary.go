package lexicon

// defaultEntries is the built-in zh-TW → en domain dictionary covering
// the vocabulary that shows up in aggregated astronomy/aerospace
// content: astrophysics, rocketry, robotics, remote sensing, and
// space-settlement terms. Synonyms are stored lowercase.
var defaultEntries = map[string][]string{
	// Astrophysics
	"黑洞":    {"black hole"},
	"事件視界":  {"event horizon"},
	"引力波":   {"gravitational wave"},
	"重力":    {"gravity", "gravitation"},
	"暗物質":   {"dark matter"},
	"暗能量":   {"dark energy"},
	"超新星":   {"supernova"},
	"中子星":   {"neutron star"},
	"脈衝星":   {"pulsar"},
	"類星體":   {"quasar"},
	"恆星":    {"star", "stellar"},
	"行星":    {"planet", "planetary"},
	"系外行星":  {"exoplanet"},
	"星系":    {"galaxy"},
	"銀河":    {"milky way", "galaxy"},
	"宇宙":    {"universe", "cosmos", "cosmology"},
	"宇宙射線":  {"cosmic ray"},
	"微波背景":  {"cosmic microwave background", "cmb"},
	"紅移":    {"redshift"},
	"光譜":    {"spectrum", "spectroscopy"},
	"紅外線":   {"infrared"},
	"紫外線":   {"ultraviolet"},
	"電波天文":  {"radio astronomy"},
	"望遠鏡":   {"telescope"},
	"韋伯":    {"webb", "jwst"},
	"哈伯":    {"hubble"},
	"日冕":    {"corona", "coronal"},
	"太陽風":   {"solar wind"},
	"太陽閃焰":  {"solar flare"},
	"日食":    {"solar eclipse", "eclipse"},
	"月食":    {"lunar eclipse"},
	"太陽":    {"sun", "solar"},
	"月球":    {"moon", "lunar"},
	"火星":    {"mars", "martian"},
	"金星":    {"venus"},
	"木星":    {"jupiter"},
	"土星":    {"saturn"},
	"彗星":    {"comet"},
	"小行星":   {"asteroid"},
	"隕石":    {"meteorite"},
	"流星":    {"meteor"},
	"大氣層":   {"atmosphere"},
	"潮汐":    {"tidal"},

	// Rocketry and spaceflight
	"火箭":    {"rocket"},
	"發射":    {"launch"},
	"推進":    {"propulsion"},
	"推進器":   {"thruster"},
	"燃料":    {"propellant", "fuel"},
	"酬載":    {"payload"},
	"軌道":    {"orbit", "orbital"},
	"登陸":    {"landing"},
	"對接":    {"docking"},
	"返回艙":   {"capsule", "reentry"},
	"太空船":   {"spacecraft", "spaceship"},
	"太空站":   {"space station"},
	"國際太空站": {"international space station", "iss"},
	"太空人":   {"astronaut"},
	"太空漫步":  {"spacewalk", "eva"},
	"太空":    {"space"},
	"獵鷹":    {"falcon"},
	"星艦":    {"starship"},
	"美國太空總署": {"nasa"},

	// Robotics and remote sensing
	"機器人":   {"robot", "robotics"},
	"機械臂":   {"robotic arm"},
	"探測器":   {"probe", "lander"},
	"漫遊車":   {"rover"},
	"遙測":    {"telemetry"},
	"遙感":    {"remote sensing"},
	"雷達":    {"radar"},
	"影像":    {"image", "imagery"},

	// Space settlement
	"太空殖民":  {"space colonization", "space settlement"},
	"殖民":    {"colonization", "settlement"},
	"棲息地":   {"habitat"},
	"生命維持":  {"life support"},
	"失重":    {"microgravity", "weightlessness"},
	"輻射防護":  {"radiation shielding"},
}
