package i18n

// Messages is the UI string table shared by every page.
var Messages = map[string]Text{
	"nav.about":        {English: "About", Chinese: "關於"},
	"nav.work":         {English: "Work", Chinese: "作品"},
	"nav.contact":      {English: "Contact", Chinese: "聯絡"},
	"nav.home":         {English: "Home", Chinese: "首頁"},
	"nav.theme":        {English: "Toggle theme", Chinese: "切換主題"},
	"hero.role1":       {English: "Freelance", Chinese: "自由接案"},
	"hero.role2":       {English: "Designer & Developer", Chinese: "設計與前端工程"},
	"hero.tagline":     {English: "Helping brands to stand out in the digital era.", Chinese: "協助品牌在數位時代脫穎而出。"},
	"hero.location":    {English: "Located in Taipei", Chinese: "現居台北"},
	"about.label":      {English: "About Me", Chinese: "關於我"},
	"about.lead":       {English: "Helping brands to stand out in the digital era. Together we will set the new status quo. No nonsense, always on the cutting edge.", Chinese: "協助品牌在數位時代脫穎而出。我們將共同樹立新標竿。拒絕空談，始終走在設計的最前沿。"},
	"about.body":       {English: "The combination of my passion for design, code & interaction positions me in a unique place in the web design world.", Chinese: "我對設計、程式與互動的熱情，讓我在網頁設計領域佔有獨特的位置。"},
	"about.more":       {English: "About me", Chinese: "更多關於我"},
	"work.recent":      {English: "Recent Work", Chinese: "近期作品"},
	"work.view":        {English: "View", Chinese: "查看"},
	"work.case":        {English: "Case Study", Chinese: "完整案例"},
	"detail.overview":  {English: "Overview", Chinese: "專案概覽"},
	"detail.highlight": {English: "Highlights", Chinese: "專案亮點"},
	"detail.role":      {English: "Role", Chinese: "角色"},
	"detail.stack":     {English: "Tech Stack", Chinese: "使用工具"},
	"detail.visit":     {English: "Visit Live Site", Chinese: "訪問網站"},
	"detail.next":      {English: "Next Case", Chinese: "下一個案例"},
	"detail.back":      {English: "Back", Chinese: "返回"},
	"notfound.title":   {English: "Project not found", Chinese: "找不到此專案"},
	"notfound.back":    {English: "Back to home", Chinese: "回到首頁"},
	"contact.idea":     {English: "Have an idea?", Chinese: "有想法嗎？"},
	"contact.work":     {English: "Let's work", Chinese: "開始"},
	"contact.together": {English: "together", Chinese: "合作"},
	"contact.name":     {English: "Name", Chinese: "姓名"},
	"contact.email":    {English: "E-mail", Chinese: "電子郵件"},
	"contact.message":  {English: "Message", Chinese: "訊息"},
	"contact.send":     {English: "Send", Chinese: "送出"},
	"contact.ok":       {English: "Thank you for your message! I'll get back to you soon.", Chinese: "感謝你的來信，我會盡快回覆！"},
	"contact.failed":   {English: "Sorry, there was an error sending your message. Please try again later.", Chinese: "抱歉，訊息送出時發生錯誤，請稍後再試。"},
	"contact.invalid":  {English: "Please fill in your name, a valid e-mail and a message.", Chinese: "請填寫姓名、有效的電子郵件與訊息。"},
	"top.back":         {English: "Back to top", Chinese: "回到頂端"},
	"nav.menu":         {English: "Menu", Chinese: "選單"},
	"footer.copyright": {English: "Copyright", Chinese: "版權"},
	"footer.time":      {English: "Local Time", Chinese: "當地時間"},
	"footer.contact":   {English: "Contact", Chinese: "聯絡方式"},
	"footer.privacy":   {English: "Privacy", Chinese: "隱私權"},
	"privacy.title":    {English: "Privacy Policy", Chinese: "隱私權政策"},
	"privacy.intro":    {English: "This site keeps as little about you as it can.", Chinese: "本網站盡可能少地保存你的資料。"},
	"privacy.visits":   {English: "Page views are counted with a salted hash of your IP address. The raw address is never stored, and the salt changes every time the server restarts.", Chinese: "頁面瀏覽以加鹽雜湊後的 IP 位址計數，原始位址不會被儲存，且鹽值會在伺服器每次重新啟動時更換。"},
	"privacy.dnt":      {English: "If your browser sends Do Not Track, no visit is recorded at all.", Chinese: "若你的瀏覽器送出「不要追蹤」(DNT)，則完全不會記錄造訪。"},
	"privacy.cookies":  {English: "Two cookies remember your language and theme. A session cookie remembers that you have seen the intro animation.", Chinese: "兩個 Cookie 會記住你的語言與主題，另一個工作階段 Cookie 記錄你已看過開場動畫。"},
	"privacy.contact":  {English: "Messages sent through the contact form are stored so they can be answered.", Chinese: "透過聯絡表單送出的訊息會被保存，以便回覆。"},
	"privacy.expiry":   {English: "Visit records are deleted after twelve months.", Chinese: "造訪紀錄會在十二個月後刪除。"},
}

// Greetings cycle through the preloader on the first visit of a session.
var Greetings = []string{
	"Hello👋🏻",
	"Glad you're here!",
	"My portfolio showcase",
	"Let's connect!",
}

// Msg looks up key in Messages for lang. Unknown keys render as the key
// itself so a missing entry shows up on the page instead of vanishing.
func (l Language) Msg(key string) string {
	t, ok := Messages[key]
	if !ok {
		return key
	}
	return t.T(l)
}
