package catalog

var samples = Snapshot{
	{ID: "1", Width: 400, Height: 550, URL: "https://picsum.photos/id/119/400/550", Title: "Pastel building facade", Category: Pastel, Author: "John Doe"},
	{ID: "2", Width: 500, Height: 400, URL: "https://picsum.photos/id/1016/500/400", Title: "Serene lake view", Category: Minimalist, Author: "Jane Smith"},
	{ID: "3", Width: 400, Height: 500, URL: "https://picsum.photos/id/10/400/500", Title: "Modern interior with a plant", Category: Interiors, Author: "Alex Johnson"},
	{ID: "4", Width: 400, Height: 300, URL: "https://picsum.photos/id/1025/400/300", Title: "Pastel tones in nature", Category: Pastel, Author: "Emily White"},
	{ID: "5", Width: 400, Height: 600, URL: "https://picsum.photos/id/103/400/600", Title: "Abstract sand dunes", Category: Abstract, Author: "Chris Green"},
	{ID: "6", Width: 500, Height: 700, URL: "https://picsum.photos/id/1040/500/700", Title: "Minimalist architecture", Category: Minimalist, Author: "Patricia Black"},
	{ID: "7", Width: 400, Height: 400, URL: "https://picsum.photos/id/1043/400/400", Title: "Pastel flowers", Category: Pastel, Author: "Michael Brown"},
	{ID: "8", Width: 500, Height: 450, URL: "https://picsum.photos/id/1047/500/450", Title: "Cozy living room", Category: Interiors, Author: "Sarah Davis"},
	{ID: "9", Width: 400, Height: 550, URL: "https://picsum.photos/id/1050/400/550", Title: "Abstract light trails", Category: Abstract, Author: "David Wilson"},
	{ID: "10", Width: 400, Height: 350, URL: "https://picsum.photos/id/1060/400/350", Title: "Desk setup", Category: Minimalist, Author: "Laura Taylor"},
	{ID: "11", Width: 500, Height: 650, URL: "https://picsum.photos/id/107/500/650", Title: "Pink wall texture", Category: Pastel, Author: "Robert Miller"},
	{ID: "12", Width: 400, Height: 500, URL: "https://picsum.photos/id/21/400/500", Title: "Modern desk setup", Category: Interiors, Author: "Jessica Martinez"},
	{ID: "13", Width: 400, Height: 600, URL: "https://picsum.photos/id/22/400/600", Title: "Abstract mountain range", Category: Abstract, Author: "William Clark"},
	{ID: "14", Width: 500, Height: 500, URL: "https://picsum.photos/id/30/500/500", Title: "Minimalist coffee cup", Category: Minimalist, Author: "Linda Harris"},
}

// Samples returns a copy of the bundled sample set shown when the live
// catalog is unreachable.
func Samples() Snapshot {
	res := make(Snapshot, len(samples))
	copy(res, samples)
	return res
}
