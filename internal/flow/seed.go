package flow

import "palaksingh/internal/domain"

var seededTestimonials = []domain.Testimonial{
	{
		ID: "1",
		TestimonialSubmission: domain.TestimonialSubmission{
			ClientName: "Priya Sharma",
			Rating:     5,
			Review:     "Palak is absolutely amazing! She did my bridal makeup and I couldn't have asked for anything better. Her attention to detail is impeccable and she made me feel like the most beautiful bride. Highly recommend her services!",
			EventType:  "Bridal",
		},
		Approved: true,
	},
	{
		ID: "2",
		TestimonialSubmission: domain.TestimonialSubmission{
			ClientName: "Ananya Gupta",
			Rating:     5,
			Review:     "I've worked with many makeup artists for my photoshoots, but Palak's work is on another level. She understands exactly what look works best for the camera. A true professional!",
			EventType:  "Editorial",
		},
		Approved: true,
	},
	{
		ID: "3",
		TestimonialSubmission: domain.TestimonialSubmission{
			ClientName: "Meera Kapoor",
			Rating:     5,
			Review:     "Had my engagement makeup done by Palak and received so many compliments! The makeup lasted all day and looked flawless in photos. She's incredibly talented and so pleasant to work with.",
			EventType:  "Engagement",
		},
		Approved: true,
	},
	{
		ID: "4",
		TestimonialSubmission: domain.TestimonialSubmission{
			ClientName: "Riya Patel",
			Rating:     5,
			Review:     "Palak transformed me for my sister's wedding. I felt like a celebrity! Her use of airbrush techniques gave me the most natural yet glamorous look. Will definitely book her again.",
			EventType:  "Party",
		},
		Approved: true,
	},
}

// DefaultTestimonials returns the testimonials shown before, and in
// addition to, anything the backend has approved.
func DefaultTestimonials() []domain.Testimonial {
	return append([]domain.Testimonial(nil), seededTestimonials...)
}
